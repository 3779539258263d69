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

package profile

// RSC holds the per-symbol, per-node residue emission log-odds scores,
// a match and an insert sub-field per node, flattened row-major by k
// for cache-linear access during the k-loop.
type RSC struct {
	k      int // alphabet size
	m      int
	match  []float32 // length (m+1)*k
	insert []float32 // length (m+1)*k
}

func newRSC(m, k int) *RSC {
	return &RSC{
		k:      k,
		m:      m,
		match:  make([]float32, (m+1)*k),
		insert: make([]float32, (m+1)*k),
	}
}

func (r *RSC) idx(x, k int) int { return k*r.k + x }

func (r *RSC) setMatch(x, k int, v float32)  { r.match[r.idx(x, k)] = v }
func (r *RSC) setInsert(x, k int, v float32) { r.insert[r.idx(x, k)] = v }

// Match returns the match-state emission score for symbol x at node k.
func (r *RSC) Match(x, k int) float32 { return r.match[r.idx(x, k)] }

// Insert returns the insert-state emission score for symbol x at node k.
func (r *RSC) Insert(x, k int) float32 { return r.insert[r.idx(x, k)] }
