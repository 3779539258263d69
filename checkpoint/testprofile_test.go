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

package checkpoint

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

func floatLog(x float64) float32 { return float32(stdmath.Log(x)) }

// newDualProfile builds a small M=m, K=2 dual-mode unihit profile with
// plain, finite log-odds scores everywhere a real path can reach,
// large enough for PlanRows to exercise a real checkpoint block once a
// longer sequence is digitized against it.
func newDualProfile(t *testing.T, m int) (*profile.Profile, dnaseq.Alphabet) {
	t.Helper()
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	b := profile.NewBuilder(m, 2)

	for k := 1; k <= m; k++ {
		b.SetMatchEmission(0, k, -0.2)
		b.SetMatchEmission(1, k, -0.3)
		b.SetBSC(k, -0.7)
		b.SetESC(k, -0.4)
	}
	for k := 1; k < m; k++ {
		b.SetInsertEmission(0, k, -1.0)
		b.SetInsertEmission(1, k, -1.0)
	}

	for k := 1; k < m; k++ {
		for _, lane := range []profile.Lane{profile.Local, profile.Glocal} {
			b.SetTrans("MM", lane, k, -0.3)
			b.SetTrans("MI", lane, k, -1.5)
			b.SetTrans("MD", lane, k, -1.5)
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
		E: profile.XLoopMove{Loop: floatLog(0.1), Move: floatLog(0.9)},
		C: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		J: profile.XLoopMove{Loop: floatLog(0.5), Move: floatLog(0.5)},
		B: struct{ ToLocal, ToGlocal float32 }{ToLocal: floatLog(0.5), ToGlocal: floatLog(0.5)},
	})
	b.SetMode(profile.Dual)
	b.SetMultiplicity(profile.Unihit)
	b.SetLengthModel(profile.LengthL)
	b.SetName("test/dual-checkpoint")

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, alphabet
}

func digitize(t *testing.T, alphabet dnaseq.Alphabet, raw string) dnaseq.Sequence {
	t.Helper()
	seq, err := dnaseq.Digitize([]byte(raw), alphabet, raw)
	if err != nil {
		t.Fatalf("Digitize(%q): %v", raw, err)
	}
	return seq
}
