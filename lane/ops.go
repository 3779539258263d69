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

// Load builds a Vec of n lanes from src, truncating or zero-padding to n.
func Load[T Elem](src []T, n int) Vec[T] {
	data := make([]T, n)
	copy(data, src[:min(n, len(src))])
	return Vec[T]{data: data}
}

// Set returns an n-lane Vec with every lane set to value.
func Set[T Elem](value T, n int) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero returns an n-lane Vec with every lane set to the zero value of T.
func Zero[T Elem](n int) Vec[T] {
	return Vec[T]{data: make([]T, n)}
}

// Add performs lane-wise addition.
func Add[T Elem](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = a.data[i] + b.data[i]
	}
	return Vec[T]{data: out}
}

// Max returns the lane-wise maximum.
func Max[T Elem](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		if a.data[i] > b.data[i] {
			out[i] = a.data[i]
		} else {
			out[i] = b.data[i]
		}
	}
	return Vec[T]{data: out}
}

// Min returns the lane-wise minimum.
func Min[T Elem](a, b Vec[T]) Vec[T] {
	n := min(len(a.data), len(b.data))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		if a.data[i] < b.data[i] {
			out[i] = a.data[i]
		} else {
			out[i] = b.data[i]
		}
	}
	return Vec[T]{data: out}
}

// GreaterEqual compares lane-wise a >= b.
func GreaterEqual[T Elem](a, b Vec[T]) Mask[T] {
	n := min(len(a.data), len(b.data))
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = a.data[i] >= b.data[i]
	}
	return Mask[T]{bits: bits}
}

// IfThenElse selects a's lane where mask is set, b's lane otherwise.
func IfThenElse[T Elem](mask Mask[T], a, b Vec[T]) Vec[T] {
	n := min(len(mask.bits), min(len(a.data), len(b.data)))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		if mask.bits[i] {
			out[i] = a.data[i]
		} else {
			out[i] = b.data[i]
		}
	}
	return Vec[T]{data: out}
}

// ReduceMax returns the maximum value across all lanes of v, or the zero
// value of T if v has no lanes. Used by the checkpointed row's rescale
// trigger, which fires when any cell grows beyond a fixed magnitude.
func ReduceMax[T Elem](v Vec[T]) T {
	if len(v.data) == 0 {
		var zero T
		return zero
	}
	m := v.data[0]
	for _, x := range v.data[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
