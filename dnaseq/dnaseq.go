// Copyright 2025 phmmcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dnaseq provides the digital sequence type every DP routine
// scores a profile against: residues 1..L drawn from a fixed alphabet,
// with sentinel symbols at positions 0 and L+1.
package dnaseq

import (
	"fmt"

	"github.com/nilsvik/phmmcore/dpstatus"
)

// Sentinel is the digitized symbol value stored at residues[0] and
// residues[L+1]; it never matches a real alphabet symbol.
const Sentinel = 255

// Alphabet maps raw bytes to digital symbol codes 0..K-1.
type Alphabet struct {
	symbols []byte       // symbols[code] is the printable character
	index   map[byte]int // index[byte] is the digital code
}

// NewAlphabet builds an Alphabet from its printable symbols, e.g.
// NewAlphabet([]byte("ACGT")) for DNA.
func NewAlphabet(symbols []byte) Alphabet {
	idx := make(map[byte]int, len(symbols))
	cp := make([]byte, len(symbols))
	copy(cp, symbols)
	for i, s := range cp {
		idx[s] = i
	}
	return Alphabet{symbols: cp, index: idx}
}

// K returns the alphabet's cardinality.
func (a Alphabet) K() int { return len(a.symbols) }

// Code returns the digital code for a raw symbol, or (-1, false) if it is
// not a member of the alphabet.
func (a Alphabet) Code(b byte) (int, bool) {
	c, ok := a.index[b]
	if !ok {
		return -1, false
	}
	return c, ok
}

// Symbol returns the printable character for a digital code.
func (a Alphabet) Symbol(code int) byte { return a.symbols[code] }

// Sequence is a digitized residue sequence of length L, stored with
// sentinels at 0 and L+1.
type Sequence struct {
	residues []uint8 // length L+2
	alphabet Alphabet
	name     string
}

// L returns the sequence length (not counting sentinels).
func (s Sequence) L() int { return len(s.residues) - 2 }

// Residue returns the digital code at position i, i in [0, L+1].
func (s Sequence) Residue(i int) uint8 { return s.residues[i] }

// Alphabet returns the sequence's alphabet.
func (s Sequence) Alphabet() Alphabet { return s.alphabet }

// Name returns the sequence's (possibly empty) display name.
func (s Sequence) Name() string { return s.name }

// Digitize converts raw bytes into a Sequence over the given alphabet,
// rejecting any byte that isn't a member. The result is sized L+2 with
// Sentinel at positions 0 and L+1.
func Digitize(raw []byte, alphabet Alphabet, name string) (Sequence, error) {
	residues := make([]uint8, len(raw)+2)
	residues[0] = Sentinel
	residues[len(residues)-1] = Sentinel
	for i, b := range raw {
		code, ok := alphabet.Code(b)
		if !ok {
			return Sequence{}, fmt.Errorf("%w: byte %q at position %d is not in the alphabet", dpstatus.ErrInvalidArgument, b, i+1)
		}
		residues[i+1] = uint8(code)
	}
	return Sequence{residues: residues, alphabet: alphabet, name: name}, nil
}
