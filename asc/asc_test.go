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

package asc

import (
	stdmath "math"
	"testing"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/refdp"
)

func smallProfile(t *testing.T) (*profile.Profile, dnaseq.Alphabet) {
	t.Helper()
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	b := profile.NewBuilder(3, 2)
	for k := 1; k <= 3; k++ {
		b.SetMatchEmission(0, k, -0.2)
		b.SetMatchEmission(1, k, -0.4)
		b.SetBSC(k, -1.0)
		b.SetESC(k, -0.5)
		b.SetGM(k, -1.2)
	}
	for k := 1; k < 3; k++ {
		b.SetInsertEmission(0, k, -1.0)
		b.SetInsertEmission(1, k, -1.0)
	}
	for _, lane := range []profile.Lane{profile.Local, profile.Glocal} {
		for k := 1; k < 3; k++ {
			b.SetTrans("MM", lane, k, -0.3)
			b.SetTrans("MI", lane, k, -1.5)
			b.SetTrans("MD", lane, k, -1.5)
			b.SetTrans("IM", lane, k, -0.5)
			b.SetTrans("II", lane, k, -1.0)
			b.SetTrans("DM", lane, k, -0.3)
			b.SetTrans("DD", lane, k, -1.0)
		}
	}
	xsc := profile.XSC{
		N: profile.XLoopMove{Loop: -0.5, Move: -0.9},
		E: profile.XLoopMove{Loop: float32(stdmath.Inf(-1)), Move: 0},
		C: profile.XLoopMove{Loop: -0.5, Move: -0.9},
		J: profile.XLoopMove{Loop: float32(stdmath.Inf(-1)), Move: 0},
	}
	xsc.B.ToLocal = -0.7
	xsc.B.ToGlocal = -0.7
	b.SetXSC(xsc)
	b.SetMode(profile.Dual)
	p, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return p, alphabet
}

func TestForwardRejectsBadAnchorK(t *testing.T) {
	p, alphabet := smallProfile(t)
	seq, err := dnaseq.Digitize([]byte("ABAB"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	anchors, err := New([]Anchor{{I: 2, K: 9}})
	if err != nil {
		t.Fatal(err)
	}
	up := refdp.New(refdp.ASCFwdUp, p.M(), seq.L())
	down := refdp.New(refdp.ASCFwdDown, p.M(), seq.L())
	if _, err := Forward(up, down, p, seq, anchors); err == nil {
		t.Fatal("expected rejection of out-of-range anchor K")
	}
}

func TestForwardSingleAnchorBoundedByDenseForward(t *testing.T) {
	p, alphabet := smallProfile(t)
	seq, err := dnaseq.Digitize([]byte("ABAB"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}

	anchors, err := New([]Anchor{{I: 2, K: 2}})
	if err != nil {
		t.Fatal(err)
	}

	up := refdp.New(refdp.ASCFwdUp, p.M(), seq.L())
	down := refdp.New(refdp.ASCFwdDown, p.M(), seq.L())
	ascScore, err := Forward(up, down, p, seq, anchors)
	if err != nil {
		t.Fatal(err)
	}

	dense := refdp.New(refdp.Fwd, p.M(), seq.L())
	denseScore, err := refdp.RunForward(dense, p, seq)
	if err != nil {
		t.Fatal(err)
	}

	if stdmath.IsInf(float64(ascScore), -1) {
		t.Fatal("ASC Forward with a satisfiable single anchor should be finite")
	}
	if ascScore > denseScore+1e-2 {
		t.Errorf("ASC Forward score %v exceeds unconstrained Forward score %v", ascScore, denseScore)
	}
}

func TestBackwardAgreesWithForward(t *testing.T) {
	p, alphabet := smallProfile(t)
	seq, err := dnaseq.Digitize([]byte("ABA"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}

	anchors, err := New([]Anchor{{I: 2, K: 2}})
	if err != nil {
		t.Fatal(err)
	}

	up := refdp.New(refdp.ASCFwdUp, p.M(), seq.L())
	down := refdp.New(refdp.ASCFwdDown, p.M(), seq.L())
	fwdScore, err := Forward(up, down, p, seq, anchors)
	if err != nil {
		t.Fatal(err)
	}

	bup := refdp.New(refdp.ASCBckUp, p.M(), seq.L())
	bdown := refdp.New(refdp.ASCBckDown, p.M(), seq.L())
	bckScore, err := Backward(bup, bdown, p, seq, anchors)
	if err != nil {
		t.Fatal(err)
	}

	if stdmath.Abs(float64(fwdScore-bckScore)) > 1e-2 {
		t.Errorf("ASC Forward = %v, ASC Backward = %v, want close agreement", fwdScore, bckScore)
	}
}

func TestDecodeProducesNormalizedRows(t *testing.T) {
	p, alphabet := smallProfile(t)
	seq, err := dnaseq.Digitize([]byte("ABA"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	anchors, err := New([]Anchor{{I: 2, K: 2}})
	if err != nil {
		t.Fatal(err)
	}

	fup := refdp.New(refdp.ASCFwdUp, p.M(), seq.L())
	fdown := refdp.New(refdp.ASCFwdDown, p.M(), seq.L())
	totsc, err := Forward(fup, fdown, p, seq, anchors)
	if err != nil {
		t.Fatal(err)
	}
	bup := refdp.New(refdp.ASCBckUp, p.M(), seq.L())
	bdown := refdp.New(refdp.ASCBckDown, p.M(), seq.L())
	if _, err := Backward(bup, bdown, p, seq, anchors); err != nil {
		t.Fatal(err)
	}

	ppUp := refdp.New(refdp.ASCDecodeUp, p.M(), seq.L())
	ppDown := refdp.New(refdp.ASCDecodeDown, p.M(), seq.L())
	if err := Decode(ppUp, ppDown, fup, fdown, bup, bdown, p, seq, totsc); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= seq.L(); i++ {
		sum := ppDown.JJ(i) + ppDown.CC(i)
		for k := 1; k <= p.M(); k++ {
			sum += ppDown.ML(i, k) + ppDown.MG(i, k) + ppDown.IL(i, k) + ppDown.IG(i, k)
			sum += ppUp.ML(i, k) + ppUp.MG(i, k) + ppUp.IL(i, k) + ppUp.IG(i, k)
		}
		if sum > 1.01 {
			t.Errorf("row %d posterior mass %v exceeds 1", i, sum)
		}
	}
}
