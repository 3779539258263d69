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

	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
)

// TestCheckDualityMatchesExplicitForwards checks that the
// duality score CheckDuality returns must equal logsum of the two
// lane-restricted Forward scores, computed independently here by
// rebuilding the restricted profiles' math manually via CheckDuality's
// own forceLane helper (the only way to run a single-lane Forward
// without duplicating the restriction logic under test).
func TestCheckDualityMatchesExplicitForwards(t *testing.T) {
	p, alphabet := newDualProfile(t)
	seq := digitize(t, alphabet, "ABA")

	got, err := CheckDuality(p, seq)
	if err != nil {
		t.Fatalf("CheckDuality: %v", err)
	}

	local, err := forceLane(p, profile.Local)
	if err != nil {
		t.Fatalf("forceLane(Local): %v", err)
	}
	glocal, err := forceLane(p, profile.Glocal)
	if err != nil {
		t.Fatalf("forceLane(Glocal): %v", err)
	}

	mx := New(Fwd, p.M(), seq.L())
	fl, err := RunForward(mx, local, seq)
	if err != nil {
		t.Fatalf("RunForward(local): %v", err)
	}
	fg, err := RunForward(mx, glocal, seq)
	if err != nil {
		t.Fatalf("RunForward(glocal): %v", err)
	}

	want := logsum.Exact(fl, fg) - float32(stdmath.Log(2))
	floatsClose(t, float64(got), float64(want), 1e-4)
}

func TestCheckDualityRejectsSingleLaneProfile(t *testing.T) {
	p, alphabet := newDualProfile(t)
	seq := digitize(t, alphabet, "A")

	local, err := forceLane(p, profile.Local)
	if err != nil {
		t.Fatalf("forceLane(Local): %v", err)
	}
	if _, err := CheckDuality(local, seq); err == nil {
		t.Fatal("expected an error for a non-dual-mode profile")
	}
}
