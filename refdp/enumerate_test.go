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
)

// TestEnumerateSumMatchesManualSum checks that EnumerateSum's
// total equals the manual sum of exp(Forward) over the same
// sequence space, computed independently via a plain nested loop rather
// than the odometer helper under test.
func TestEnumerateSumMatchesManualSum(t *testing.T) {
	p, alphabet := newDualProfile(t)
	const maxLen = 3

	got, err := EnumerateSum(p, alphabet, maxLen)
	if err != nil {
		t.Fatalf("EnumerateSum: %v", err)
	}

	var want float64
	mx := New(Fwd, p.M(), maxLen)
	var rec func(prefix []byte)
	rec = func(prefix []byte) {
		if len(prefix) > 0 {
			seq, err := dnaseq.Digitize(prefix, alphabet, "")
			if err != nil {
				t.Fatalf("digitize: %v", err)
			}
			score, err := RunForward(mx, p, seq)
			if err != nil {
				t.Fatalf("RunForward: %v", err)
			}
			if !stdmath.IsInf(float64(score), -1) {
				want += stdmath.Exp(float64(score))
			}
		}
		if len(prefix) == maxLen {
			return
		}
		for _, sym := range []byte("AB") {
			rec(append(prefix, sym))
		}
	}
	rec(nil)

	floatsClose(t, float64(got), want, 1e-3)
}

func TestOdometerIncrement(t *testing.T) {
	codes := []int{0, 0}
	steps := 0
	for {
		if !odometerIncrement(codes, 2) {
			break
		}
		steps++
		if steps > 10 {
			t.Fatal("odometerIncrement did not terminate")
		}
	}
	if steps != 3 {
		t.Errorf("odometerIncrement over base 2, width 2: got %d increments, want 3", steps)
	}
}
