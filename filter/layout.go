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

import "github.com/nilsvik/phmmcore/lane"

// layout is package checkpoint's (q,z) striping scheme,
// re-derived here for the integer filter rows: V is the lane
// width of whichever Ints type the filter is running in, Q =
// ceil((M-1)/V)+1. Filter rows are one lane.Vec[T] per state per
// vector q, not a single qv()-length flat slice, because Farrar-style
// striping processes one whole
// vector at a time and needs lane.Rotate's carry-in between vectors,
// not random access into a flat array.
type layout struct {
	m, v, q int
}

// newLayout builds the striping scheme for T's lane width at model
// size m.
func newLayout[T lane.Ints](m int) layout {
	v := lane.Width[T]()
	if v < 1 {
		v = 1
	}
	q := (m-1+v-1)/v + 1
	if q < 1 {
		q = 1
	}
	return layout{m: m, v: v, q: q}
}

// kOf returns the model position held at (vector q, lane z).
func (ly layout) kOf(q, z int) int { return q + 1 + z*ly.q }

// coord returns the (q,z) stripe coordinates for model position k, for
// tests and cross-checks against the scalar recursion.
func (ly layout) coord(k int) (q, z int) {
	kk := k - 1
	return kk % ly.q, kk / ly.q
}

// qv is the flat per-state slice length (vector-major, as in package
// checkpoint): Q vectors of V lanes.
func (ly layout) qv() int { return ly.q * ly.v }

// index returns the flat, vector-major offset for model position k,
// used by the Viterbi filter's flat int16 rows (the deferred
// D-storage trick needs adjacent-k cache locality within one row,
// which a flat vector-major array gives directly; see
// checkpoint.layout.index for the float32 analogue).
func (ly layout) index(k int) int {
	q, z := ly.coord(k)
	return q*ly.v + z
}
