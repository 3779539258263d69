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

	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dpstatus"
)

func TestForwardBackwardRoundTrip(t *testing.T) {
	p, alphabet := newLocalProfile(t, 6)
	seq := digitize(t, alphabet, "AAAAAAAAAA")

	mx := checkpoint.New(p.M(), seq.L(), 1<<20)
	if res, err := MSV(mx, p, seq); err != nil || res.Status != dpstatus.OK {
		t.Fatalf("MSV: status=%v err=%v", res.Status, err)
	}

	fsc, err := Forward(mx, p, seq)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	bsc, mask, err := Backward(mx, p, seq, fsc, -4.0)
	if err != nil {
		t.Fatalf("Backward: %v", err)
	}

	if diff := fsc - bsc; diff > 0.05 || diff < -0.05 {
		t.Errorf("Forward=%v Backward=%v, want close", fsc, bsc)
	}
	if len(mask.Segments()) == 0 {
		t.Errorf("expected at least one sparse-mask segment for a clearly matching sequence")
	}
}
