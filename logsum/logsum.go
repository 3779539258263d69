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

// Package logsum computes log(e^a + e^b) in single precision, the one
// operation every DP recursion in this repository calls in its inner loop.
// Two variants are provided: Exact, built directly on the standard math
// package, and Fast, a quantised table-lookup approximation whose table
// is built once, either by an explicit Init or lazily on Fast's first call.
package logsum

import stdmath "math"

// NegInf is the sentinel used throughout this repository for log(0).
var NegInf = float32(stdmath.Inf(-1))

// Exact computes log(e^a + e^b) using the standard library's Log1p/Exp,
// exact to float32 precision. Either operand may be NegInf; Exact never
// panics and never returns NaN for finite or NegInf inputs.
//
// Algorithm: reduces to max(a,b) + log1p(exp(-|a-b|)) so the exponential
// argument is always <= 0, avoiding overflow.
//
// Special cases:
//   - Exact(a, NegInf) = a, for any finite a
//   - Exact(NegInf, NegInf) = NegInf
func Exact(a, b float32) float32 {
	if stdmath.IsInf(float64(a), -1) {
		return b
	}
	if stdmath.IsInf(float64(b), -1) {
		return a
	}
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	diff := float64(lo) - float64(hi)
	return hi + float32(stdmath.Log1p(stdmath.Exp(diff)))
}
