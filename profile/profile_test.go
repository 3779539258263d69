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

package profile

import (
	stdmath "math"
	"testing"

	"github.com/nilsvik/phmmcore/logsum"
)

// buildMinimal constructs a tiny, internally consistent 3-node profile
// over a 2-symbol alphabet, local-only, unihit. It is deliberately
// simple: used only to exercise Builder plumbing, not as a biologically
// meaningful model.
func buildMinimal(t *testing.T) *Profile {
	t.Helper()
	b := NewBuilder(3, 2)
	half := float32(stdmath.Log(0.5))
	for k := 1; k <= 3; k++ {
		b.SetTrans("MM", Local, k, half)
		b.SetTrans("MD", Local, k, half)
		b.SetBSC(k, half)
		b.SetESC(k, half)
		b.SetMatchEmission(0, k, 0)
		b.SetMatchEmission(1, k, 0)
	}
	for k := 0; k < 3; k++ {
		b.SetInsertEmission(0, k, 0)
		b.SetInsertEmission(1, k, 0)
	}
	b.SetXSC(XSC{
		N: XLoopMove{Loop: half, Move: half},
		E: XLoopMove{Loop: logsum.NegInf, Move: 0},
		C: XLoopMove{Loop: half, Move: half},
		J: XLoopMove{Loop: half, Move: half},
	})
	b.SetMode(LocalOnly)
	b.SetMultiplicity(Unihit)
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: unexpected error: %v", err)
	}
	return p
}

func TestBuildMinimalProfile(t *testing.T) {
	p := buildMinimal(t)
	if p.M() != 3 {
		t.Errorf("M(): got %d, want 3", p.M())
	}
	if p.K() != 2 {
		t.Errorf("K(): got %d, want 2", p.K())
	}
	if !p.AllowsLocal() || p.AllowsGlocal() {
		t.Errorf("local-only profile: AllowsLocal=%v AllowsGlocal=%v", p.AllowsLocal(), p.AllowsGlocal())
	}
}

func TestTSCNode0IsNegInf(t *testing.T) {
	p := buildMinimal(t)
	if got := p.TSC().MM(Local, 0); !isNegInf(got) {
		t.Errorf("MM(Local,0): got %v, want -Inf", got)
	}
}

func TestIMExclusionRejected(t *testing.T) {
	b := NewBuilder(2, 2)
	for k := 1; k <= 2; k++ {
		b.SetBSC(k, 0)
		b.SetESC(k, 0)
		b.SetMatchEmission(0, k, 0)
		b.SetMatchEmission(1, k, 0)
	}
	for k := 0; k < 2; k++ {
		b.SetInsertEmission(0, k, 0)
		b.SetInsertEmission(1, k, 0)
	}
	// Illegally give I_M (k=M=2) a II transition.
	b.SetTrans("II", Local, 2, float32(stdmath.Log(0.5)))
	b.SetXSC(XSC{
		N: XLoopMove{Loop: 0, Move: 0},
		C: XLoopMove{Loop: 0, Move: 0},
		J: XLoopMove{Loop: 0, Move: 0},
	})
	_, err := b.Build()
	if err == nil {
		t.Fatalf("Build: expected an error for an II transition out of I_M, got none")
	}
}

func TestSetTransOutOfRangeRejected(t *testing.T) {
	b := NewBuilder(2, 2)
	b.SetTrans("MM", Local, 0, 0) // k=0 is always rejected
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build: expected an error for SetTrans at k=0")
	}
}

func TestGMOffByOneStorage(t *testing.T) {
	b := NewBuilder(3, 2)
	b.SetGM(2, float32(-1.5))
	if got := b.p.tsc.GM(1); got != -1.5 {
		t.Errorf("GM(1) after SetGM(k=2,...): got %v, want -1.5", got)
	}
}
