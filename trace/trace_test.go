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

package trace

import "testing"

func TestAppendAndReverse(t *testing.T) {
	var tr Trace
	tr.Append(Step{State: S})
	tr.Append(Step{State: N})
	tr.Append(Step{State: B})

	tr.Reverse()
	want := []State{B, N, S}
	for i, step := range tr {
		if step.State != want[i] {
			t.Errorf("index %d: got %v, want %v", i, step.State, want[i])
		}
	}
}

func TestValidateRejectsMissingEndpoints(t *testing.T) {
	tr := Trace{{State: N}, {State: B}}
	if err := tr.Validate(0); err == nil {
		t.Fatal("expected an error when trace does not begin S and end T")
	}
}

func TestValidateRejectsSkippedResidue(t *testing.T) {
	tr := Trace{
		{State: S},
		{State: N},
		{State: B},
		{State: L},
		{State: ML, K: 1, I: 2},
		{State: E},
		{State: C},
		{State: T},
	}
	if err := tr.Validate(2); err == nil {
		t.Fatal("expected an error when residue 1 is never emitted")
	}
}

func TestValidateRejectsOutOfOrderNode(t *testing.T) {
	tr := Trace{
		{State: S},
		{State: N},
		{State: B},
		{State: L},
		{State: ML, K: 2, I: 1},
		{State: ML, K: 1, I: 2},
		{State: E},
		{State: C},
		{State: T},
	}
	if err := tr.Validate(2); err == nil {
		t.Fatal("expected an error when node index decreases within a domain")
	}
}

func TestValidateAcceptsWellFormedTrace(t *testing.T) {
	tr := Trace{
		{State: S},
		{State: N},
		{State: B},
		{State: L},
		{State: ML, K: 1, I: 1},
		{State: ML, K: 2, I: 2},
		{State: E},
		{State: C},
		{State: T},
	}
	if err := tr.Validate(2); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestStateStringAndPredicates(t *testing.T) {
	if ML.String() != "M_L" {
		t.Errorf("ML.String() = %q, want %q", ML.String(), "M_L")
	}
	if !ML.Emits() || !ML.HasK() {
		t.Errorf("M_L must both emit and carry a node index")
	}
	if B.Emits() || B.HasK() {
		t.Errorf("B must neither emit nor carry a node index")
	}
}
