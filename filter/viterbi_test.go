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
	"testing"

	"github.com/nilsvik/phmmcore/dpstatus"
)

func TestViterbiPrefersMatchingResidue(t *testing.T) {
	p, alphabet := newLocalProfile(t, 6)
	mx := workspace(t, p)

	good := digitize(t, alphabet, "AAAAAA")
	bad := digitize(t, alphabet, "BBBBBB")

	goodRes, err := Viterbi(mx, p, good)
	if err != nil {
		t.Fatalf("Viterbi(good): %v", err)
	}
	if goodRes.Status != dpstatus.OK {
		t.Fatalf("Viterbi(good) status = %v, want OK", goodRes.Status)
	}

	badRes, err := Viterbi(mx, p, bad)
	if err != nil {
		t.Fatalf("Viterbi(bad): %v", err)
	}
	if badRes.Status != dpstatus.OK {
		t.Fatalf("Viterbi(bad) status = %v, want OK", badRes.Status)
	}

	if goodRes.Score <= badRes.Score {
		t.Errorf("Viterbi(good)=%d, Viterbi(bad)=%d; want good strictly higher", goodRes.Score, badRes.Score)
	}
}

func TestViterbiAgreesInSignWithMSV(t *testing.T) {
	// The filter's full state machine permits indels the MSV/SSV
	// ungapped model cannot, so Viterbi's score (in its own int16 fixed
	// point) should never be worse than what an ungapped-only path
	// could find, once both are expressed as a fraction of their
	// respective ceilings; this test only checks the weaker, robust
	// property that Viterbi does not collapse to its floor on an
	// ordinary matching sequence.
	p, alphabet := newLocalProfile(t, 5)
	mx := workspace(t, p)
	seq := digitize(t, alphabet, "AAAAA")

	res, err := Viterbi(mx, p, seq)
	if err != nil {
		t.Fatalf("Viterbi: %v", err)
	}
	if res.Status != dpstatus.OK {
		t.Fatalf("status = %v, want OK", res.Status)
	}
	if res.Score <= lo16 {
		t.Errorf("Viterbi score = %d, want well above the int16 floor", res.Score)
	}
}
