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

package filter

import (
	stdmath "math"
	"testing"

	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
)

func floatLog(x float64) float32 { return float32(stdmath.Log(x)) }

// newLocalProfile builds a small M-node, 2-symbol dual-mode multihit
// profile, weighted 0.9 toward the local lane, with a clear preferred residue (symbol 0) at every match
// position, so a filter run over a sequence of all-symbol-0 residues
// should score well above one over all-symbol-1 residues.
func newLocalProfile(t *testing.T, m int) (*profile.Profile, dnaseq.Alphabet) {
	t.Helper()
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	b := profile.NewBuilder(m, 2)

	for k := 1; k <= m; k++ {
		b.SetMatchEmission(0, k, 1.5)
		b.SetMatchEmission(1, k, -2.0)
		b.SetBSC(k, floatLog(1.0/float64(m)))
		b.SetESC(k, -0.1)
	}
	for k := 1; k < m; k++ {
		b.SetInsertEmission(0, k, -1.0)
		b.SetInsertEmission(1, k, -1.0)
	}
	for k := 1; k < m; k++ {
		for _, lane := range []profile.Lane{profile.Local, profile.Glocal} {
			b.SetTrans("MM", lane, k, -0.3)
			b.SetTrans("MI", lane, k, -2.0)
			b.SetTrans("MD", lane, k, -2.0)
			b.SetTrans("IM", lane, k, -0.5)
			b.SetTrans("II", lane, k, -1.0)
			b.SetTrans("DM", lane, k, -0.2)
			b.SetTrans("DD", lane, k, -0.2)
		}
	}
	for k := 1; k <= m; k++ {
		b.SetGM(k, -0.1)
	}
	b.SetXSC(profile.XSC{
		N: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		E: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		C: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		J: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		B: struct{ ToLocal, ToGlocal float32 }{ToLocal: floatLog(0.9), ToGlocal: floatLog(0.1)},
	})
	b.SetMode(profile.Dual)
	b.SetMultiplicity(profile.Multihit)
	b.SetLengthModel(profile.LengthL)
	b.SetName("test/filter")

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, alphabet
}

// workspace builds a checkpoint matrix for the filters to carve their
// integer rows out of, the same allocation a later checkpointed
// Forward/Backward pass would reuse.
func workspace(t *testing.T, p *profile.Profile) *checkpoint.Matrix {
	t.Helper()
	return checkpoint.New(p.M(), 16, 1<<20)
}

func digitize(t *testing.T, alphabet dnaseq.Alphabet, raw string) dnaseq.Sequence {
	t.Helper()
	seq, err := dnaseq.Digitize([]byte(raw), alphabet, raw)
	if err != nil {
		t.Fatalf("Digitize(%q): %v", raw, err)
	}
	return seq
}
