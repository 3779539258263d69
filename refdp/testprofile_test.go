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
	"testing"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
)

func floatsClose(t *testing.T, got, want, tol float64) {
	t.Helper()
	if stdmath.Abs(got-want) > tol {
		t.Errorf("got %v, want %v (tol %v)", got, want, tol)
	}
}

// newDualProfile builds a small M=2, K=2 dual-mode unihit profile with
// plain, finite log-odds scores everywhere a real path can reach, in
// the hand-built brute-force style: every score set explicitly.
func newDualProfile(t *testing.T) (*profile.Profile, dnaseq.Alphabet) {
	t.Helper()
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	b := profile.NewBuilder(2, 2)

	for k := 1; k <= 2; k++ {
		b.SetMatchEmission(0, k, -0.2)
		b.SetMatchEmission(1, k, -0.3)
		b.SetBSC(k, -0.7)
		b.SetESC(k, -0.4)
	}
	b.SetInsertEmission(0, 1, -1.0)
	b.SetInsertEmission(1, 1, -1.0)

	for _, lane := range []profile.Lane{profile.Local, profile.Glocal} {
		b.SetTrans("MM", lane, 1, -0.3)
		b.SetTrans("MI", lane, 1, -1.5)
		b.SetTrans("MD", lane, 1, -1.5)
		b.SetTrans("IM", lane, 1, -0.5)
		b.SetTrans("II", lane, 1, -1.0)
		b.SetTrans("DM", lane, 1, -0.2)
	}
	b.SetGM(1, -0.1)
	b.SetGM(2, -2.0)

	b.SetXSC(profile.XSC{
		N: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		E: profile.XLoopMove{Loop: floatLog(0.1), Move: floatLog(0.9)},
		C: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		J: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		B: struct{ ToLocal, ToGlocal float32 }{ToLocal: floatLog(0.5), ToGlocal: floatLog(0.5)},
	})
	b.SetMode(profile.Dual)
	b.SetMultiplicity(profile.Unihit)
	b.SetLengthModel(profile.LengthL)
	b.SetName("test/dual-M2")

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, alphabet
}

func floatLog(x float64) float32 { return float32(stdmath.Log(x)) }

func digitize(t *testing.T, alphabet dnaseq.Alphabet, raw string) dnaseq.Sequence {
	t.Helper()
	seq, err := dnaseq.Digitize([]byte(raw), alphabet, raw)
	if err != nil {
		t.Fatalf("Digitize(%q): %v", raw, err)
	}
	return seq
}
