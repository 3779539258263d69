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

package lane

import "testing"

func TestSet(t *testing.T) {
	v := Set(float32(7), 4)
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != 7 {
			t.Errorf("Set: lane %d: got %v, want 7", i, v.data[i])
		}
	}
}

func TestZero(t *testing.T) {
	v := Zero[float32](3)
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != 0 {
			t.Errorf("Zero: lane %d: got %v, want 0", i, v.data[i])
		}
	}
}

func TestAddFloat32(t *testing.T) {
	a := Load([]float32{1, 2, 3}, 3)
	b := Load([]float32{10, 20, 30}, 3)
	result := Add(a, b)

	expected := []float32{11, 22, 33}
	for i, want := range expected {
		if result.data[i] != want {
			t.Errorf("Add: lane %d: got %v, want %v", i, result.data[i], want)
		}
	}
}

func TestMaxMin(t *testing.T) {
	a := Load([]float32{1, 5, 3}, 3)
	b := Load([]float32{4, 2, 3}, 3)

	maxResult := Max(a, b)
	expectedMax := []float32{4, 5, 3}
	for i, want := range expectedMax {
		if maxResult.data[i] != want {
			t.Errorf("Max: lane %d: got %v, want %v", i, maxResult.data[i], want)
		}
	}

	minResult := Min(a, b)
	expectedMin := []float32{1, 2, 3}
	for i, want := range expectedMin {
		if minResult.data[i] != want {
			t.Errorf("Min: lane %d: got %v, want %v", i, minResult.data[i], want)
		}
	}
}

func TestIfThenElse(t *testing.T) {
	a := Load([]float32{1, 2, 3}, 3)
	b := Load([]float32{10, 20, 30}, 3)
	mask := GreaterEqual(a, Load([]float32{2, 2, 2}, 3))

	result := IfThenElse(mask, a, b)
	expected := []float32{10, 2, 3}
	for i, want := range expected {
		if result.data[i] != want {
			t.Errorf("IfThenElse: lane %d: got %v, want %v", i, result.data[i], want)
		}
	}
}

func TestReduceMax(t *testing.T) {
	v := Load([]float32{-5, 12, 3, 7}, 4)
	if got := ReduceMax(v); got != 12 {
		t.Errorf("ReduceMax: got %v, want 12", got)
	}

	if got := ReduceMax(Zero[float32](0)); got != 0 {
		t.Errorf("ReduceMax of empty Vec: got %v, want 0", got)
	}
}
