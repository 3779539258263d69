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

package refdp

import (
	stdmath "math"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
)

// EnumerateSum brute-force sums exp(Forward(p, x)) over every sequence
// x drawn from alphabet with length in [1, maxLen]. The caller adds the
// separately-computed mute-path (L=0, all-deletion) probability to
// reach the full Sigma^<=maxLen total — this routine cannot derive that
// term itself because the wing-retracted G->M_k storage (the off-by-one
// GM(k-1) accessor) never exposes a standalone "G reaches E having
// emitted nothing" score through profile.TSC's public accessors.
//
// Intended for small maxLen/alphabet combinations where exhaustive
// enumeration is the point, not a performance concern.
func EnumerateSum(p *profile.Profile, alphabet dnaseq.Alphabet, maxLen int) (float32, error) {
	mx := New(Fwd, p.M(), maxLen)
	var sum float64

	for length := 1; length <= maxLen; length++ {
		raw := make([]byte, length)
		for i := range raw {
			raw[i] = alphabet.Symbol(0)
		}
		codes := make([]int, length)

		for {
			seq, err := dnaseq.Digitize(raw, alphabet, "")
			if err != nil {
				return 0, err
			}
			score, err := RunForward(mx, p, seq)
			if err != nil {
				return 0, err
			}
			if !stdmath.IsInf(float64(score), -1) {
				sum += stdmath.Exp(float64(score))
			}

			if !odometerIncrement(codes, alphabet.K()) {
				break
			}
			for i, c := range codes {
				raw[i] = alphabet.Symbol(c)
			}
		}
	}

	return float32(sum), nil
}

// odometerIncrement advances codes (each in [0,base)) by one, carrying
// like a multi-digit counter, and reports whether it wrapped past the
// all-(base-1) maximum.
func odometerIncrement(codes []int, base int) bool {
	for i := len(codes) - 1; i >= 0; i-- {
		codes[i]++
		if codes[i] < base {
			return true
		}
		codes[i] = 0
	}
	return false
}
