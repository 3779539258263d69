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

import "github.com/nilsvik/phmmcore/dnaseq"

// newLocalRow allocates a standalone Row (not a view into a Matrix's
// dp_mem) for regeneration scratch use.
func newLocalRow(ly layout) *Row {
	qv := ly.qv()
	r := &Row{
		ml:      make([]float32, qv),
		mg:      make([]float32, qv),
		il:      make([]float32, qv),
		ig:      make([]float32, qv),
		dl:      make([]float32, qv),
		dg:      make([]float32, qv),
		special: make([]float32, numSpecialSlots),
	}
	r.reset()
	return r
}

// forwardRowAt returns row i's Forward values: directly from the
// retained store when i is retained, otherwise by replaying Forward
// from the nearest earlier checkpoint up to i. The returned Row is
// scratch owned by mx, valid only until the next forwardRowAt/Forward
// call.
//
// This replays from scratch for every query row rather than caching a
// whole block's worth of intermediate rows across successive Backward
// steps. That costs more than the ~1.5x-of-Forward bound a block cache
// would give, but stays a much smaller, easier-to-get-right
// implementation.
func (mx *Matrix) forwardRowAt(i int, lp *linProfile, seq dnaseq.Sequence) *Row {
	if retained, ok := mx.RetainedRow(i); ok {
		return retained
	}
	start := mx.NearestCheckpoint(i)
	base, ok := mx.RetainedRow(start)
	if !ok {
		base = mx.boundary
	}

	prev := mx.regenScratchA()
	cur := mx.regenScratchB()
	copyRow(prev, base)

	for row := start + 1; row <= i; row++ {
		x := int(seq.Residue(row))
		stepForward(mx.ly, prev, cur, lp, x)
		maybeRescale(cur)
		prev, cur = cur, prev
	}
	return prev
}

func (mx *Matrix) regenScratchA() *Row {
	if mx.regenA == nil {
		mx.regenA = newLocalRow(mx.ly)
	}
	return mx.regenA
}

func (mx *Matrix) regenScratchB() *Row {
	if mx.regenB == nil {
		mx.regenB = newLocalRow(mx.ly)
	}
	return mx.regenB
}
