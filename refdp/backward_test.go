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

import "testing"

// TestForwardBackwardAgree checks that RunForward and
// RunBackward, run on the same profile/sequence, agree on the
// total log-odds score (Forward's C(L)+move versus Backward's N(0)).
func TestForwardBackwardAgree(t *testing.T) {
	p, alphabet := newDualProfile(t)

	for _, raw := range []string{"A", "B", "AB", "BA", "AAB", "ABAB", "BABA"} {
		seq := digitize(t, alphabet, raw)

		fmx := New(Fwd, p.M(), seq.L())
		f, err := RunForward(fmx, p, seq)
		if err != nil {
			t.Fatalf("RunForward(%q): %v", raw, err)
		}

		bmx := New(Bck, p.M(), seq.L())
		b, err := RunBackward(bmx, p, seq)
		if err != nil {
			t.Fatalf("RunBackward(%q): %v", raw, err)
		}

		floatsClose(t, float64(f), float64(b), 1e-2)
	}
}

func TestRunBackwardWrongKind(t *testing.T) {
	p, alphabet := newDualProfile(t)
	seq := digitize(t, alphabet, "A")

	mx := New(Fwd, p.M(), seq.L())
	if _, err := RunBackward(mx, p, seq); err == nil {
		t.Fatal("expected an error when running Backward on a Fwd-kind matrix")
	}
}
