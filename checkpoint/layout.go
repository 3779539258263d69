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

package checkpoint

import "github.com/nilsvik/phmmcore/lane"

// layout describes one row's striped shape for a model of M consensus
// positions: Q vectors of V lanes each, Q = ceil((M-1)/V)+1 where V is
// the SIMD lane count for the element size in use. Position
// k in [1,M] maps to (q,z) = ((k-1) mod Q, (k-1) div Q): lane z of
// vector q holds model position k = q+1+z*Q, so positions adjacent in
// the model are spread across different vectors Q apart, breaking the
// tight M(k)->M(k-1) dependency chain within a single vector op.
type layout struct {
	m int
	v int // lanes per vector
	q int // vector count
}

func newLayout(m int) layout {
	v := lane.Width[float32]()
	if v < 1 {
		v = 1
	}
	q := (m-1+v-1)/v + 1
	if q < 2 {
		q = 2 // the striped recursions assume at least two vectors
	}
	return layout{m: m, v: v, q: q}
}

// qv is the flat per-state slice length: Q vectors of V lanes.
func (ly layout) qv() int { return ly.q * ly.v }

// coord returns the (q,z) stripe coordinates for model position k.
func (ly layout) coord(k int) (q, z int) {
	kk := k - 1
	return kk % ly.q, kk / ly.q
}

// index returns the flat offset within a qv()-length slice for model
// position k, stored vector-major (vector q occupies [q*V, q*V+V)).
func (ly layout) index(k int) int {
	q, z := ly.coord(k)
	return q*ly.v + z
}

// withinRange reports whether k is a real model position in [1,M]
// (some trailing lanes of the final vectors are padding when M isn't a
// multiple of Q*V's natural fill).
func (ly layout) withinRange(k int) bool { return k >= 1 && k <= ly.m }
