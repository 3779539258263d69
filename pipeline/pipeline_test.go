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

package pipeline

import (
	stdmath "math"
	"testing"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/profile"
)

func floatLog(x float64) float32 { return float32(stdmath.Log(x)) }

func newTestProfile(t *testing.T, m int) (*profile.Profile, dnaseq.Alphabet) {
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
	b.SetName("test/pipeline")

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

func TestRunOrderingProducesAnchors(t *testing.T) {
	p, alphabet := newTestProfile(t, 6)
	seq := digitize(t, alphabet, "AAAAAAAAAA")

	job := Job{Profile: p, Seq: seq, MaskThreshold: -6.0}
	res := Run(job)

	if res.Status != dpstatus.OK {
		t.Fatalf("Run status = %v, err = %v", res.Status, res.Err)
	}
	if res.Decode == nil {
		t.Fatal("expected a decoded posterior matrix for a matching sequence")
	}
	if res.Anchors == nil || res.Anchors.D() == 0 {
		t.Fatal("expected at least one anchor for a matching sequence")
	}
	for d := 0; d < res.Anchors.D(); d++ {
		a := res.Anchors.At(d)
		if a.K < 1 || a.K > p.M() {
			t.Errorf("anchor %d has K=%d out of [1,%d]", d, a.K, p.M())
		}
	}
}

func TestRunNoMaskSegmentsStillReturnsScore(t *testing.T) {
	p, alphabet := newTestProfile(t, 4)
	seq := digitize(t, alphabet, "BBBB")

	job := Job{Profile: p, Seq: seq, MaskThreshold: 1e6}
	res := Run(job)

	if res.Status != dpstatus.OK {
		t.Fatalf("Run status = %v, err = %v", res.Status, res.Err)
	}
	if res.Decode != nil {
		t.Errorf("expected no decoding work when the mask has no segments")
	}
}

func TestPoolRunPreservesOrderAndCoversAllJobs(t *testing.T) {
	p, alphabet := newTestProfile(t, 5)

	jobs := make([]Job, 0, 6)
	for i := 0; i < 6; i++ {
		raw := "AAAAA"
		if i%2 == 0 {
			raw = "AABAA"
		}
		jobs = append(jobs, Job{Profile: p, Seq: digitize(t, alphabet, raw), MaskThreshold: -6.0})
	}

	pool := New(2)
	defer pool.Close()

	results := pool.Run(jobs, Run)
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, res := range results {
		if res.Status != dpstatus.OK {
			t.Errorf("job %d: status = %v, err = %v", i, res.Status, res.Err)
		}
	}
}
