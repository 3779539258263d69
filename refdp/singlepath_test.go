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
	"reflect"
	"testing"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/internal/rng"
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/trace"
)

// newSinglePathProfile builds a degenerate M=3 glocal-only profile in
// which every transition and emission probability is 0 or 1, so exactly
// one path (and one sequence, "AAA") carries any mass.
func newSinglePathProfile(t *testing.T) (*profile.Profile, dnaseq.Alphabet) {
	t.Helper()
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	b := profile.NewBuilder(3, 2)

	for k := 1; k <= 3; k++ {
		b.SetMatchEmission(0, k, 0)
	}
	b.SetTrans("MM", profile.Glocal, 1, 0)
	b.SetTrans("MM", profile.Glocal, 2, 0)
	b.SetGM(1, 0)

	b.SetXSC(profile.XSC{
		N: profile.XLoopMove{Loop: logsum.NegInf, Move: 0},
		E: profile.XLoopMove{Loop: logsum.NegInf, Move: 0},
		C: profile.XLoopMove{Loop: logsum.NegInf, Move: 0},
		J: profile.XLoopMove{Loop: logsum.NegInf, Move: 0},
		B: struct{ ToLocal, ToGlocal float32 }{ToLocal: logsum.NegInf, ToGlocal: 0},
	})
	b.SetMode(profile.GlocalOnly)
	b.SetMultiplicity(profile.Unihit)
	b.SetLengthModel(profile.LengthZero)
	b.SetName("test/singlepath-M3")

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p, alphabet
}

// TestSinglePathAllAlgorithmsAgree checks the degenerate-profile case:
// with exactly one possible path, Viterbi, Forward, Backward and the
// replayed optimal trace must all produce the same score (here 0, every
// step having probability 1), and the stochastic traceback has only one
// choice at every cell, so its trace must equal the optimal one.
func TestSinglePathAllAlgorithmsAgree(t *testing.T) {
	p, alphabet := newSinglePathProfile(t)
	seq := digitize(t, alphabet, "AAA")

	vmx := New(Viterbi, p.M(), seq.L())
	vsc, err := RunViterbi(vmx, p, seq)
	if err != nil {
		t.Fatalf("RunViterbi: %v", err)
	}
	fmx := New(Fwd, p.M(), seq.L())
	fsc, err := RunForward(fmx, p, seq)
	if err != nil {
		t.Fatalf("RunForward: %v", err)
	}
	bmx := New(Bck, p.M(), seq.L())
	bsc, err := RunBackward(bmx, p, seq)
	if err != nil {
		t.Fatalf("RunBackward: %v", err)
	}

	floatsClose(t, float64(vsc), 0, 1e-4)
	floatsClose(t, float64(fsc), float64(vsc), 1e-4)
	floatsClose(t, float64(bsc), float64(vsc), 1e-4)

	opt, err := OptimalTraceback(vmx, p, seq)
	if err != nil {
		t.Fatalf("OptimalTraceback: %v", err)
	}
	replayed, err := trace.ScoreByReplay(opt, p, seq)
	if err != nil {
		t.Fatalf("ScoreByReplay: %v", err)
	}
	floatsClose(t, float64(replayed), float64(vsc), 1e-4)

	stoch, err := StochasticTraceback(fmx, p, seq, rng.New(7))
	if err != nil {
		t.Fatalf("StochasticTraceback: %v", err)
	}
	if !reflect.DeepEqual(stoch, opt) {
		t.Errorf("stochastic trace %v differs from the unique optimal trace %v", stoch, opt)
	}
}
