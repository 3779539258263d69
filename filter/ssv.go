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
	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/lane"
	"github.com/nilsvik/phmmcore/profile"
)

// SSV runs the single-segment variant of the MSV filter
// over seq against p in 8-bit saturating arithmetic:
// the best ungapped run anywhere in the sequence, with no re-entry
// through J once it ends (MSV's loop-back to pick up a second domain
// is exactly what SSV drops, hence "single-segment"). This is the
// classic striped local-alignment recurrence (a run resets to zero
// rather than going negative) restricted to one match-state lane per
// model position. Like MSV, its two byte rows are carved from mx's
// allocation rather than allocated separately.
func SSV(mx *checkpoint.Matrix, p *profile.Profile, seq dnaseq.Sequence) (Result, error) {
	if ok := preflightMSV(p); !ok {
		return Result{Status: dpstatus.FilterNoResult}, nil
	}

	ly := newLayout[int8](p.M())
	qv := ly.qv()
	buf, err := wide8(mx, 2*qv)
	if err != nil {
		return Result{Status: dpstatus.MemoryError}, err
	}
	prevRow, curRow := buf[:qv], buf[qv:2*qv]
	fillRow8(prevRow, negInf8)
	fillRow8(curRow, negInf8)
	l := seq.L()
	zero := lane.Set(int8(0), ly.v)

	best := int8(0)
	overflow := false

	for i := 1; i <= l; i++ {
		x := int(seq.Residue(i))
		for q := 0; q < ly.q; q++ {
			var prevK1 lane.Vec[int8]
			if q == 0 {
				prevK1 = lane.Rotate(loadVec8(prevRow, ly, ly.q-1), 0)
			} else {
				prevK1 = loadVec8(prevRow, ly, q-1)
			}

			embVec := embVec8(ly, p, q, x)
			cell := lane.Max(zero, lane.SaturatedAdd(prevK1, embVec))
			cell.Store(curRow[q*ly.v : (q+1)*ly.v])

			if lane.Overflowed(cell) {
				overflow = true
			}
			rowMax := lane.ReduceMax(maskPadding8(ly, q, cell))
			if rowMax > best {
				best = rowMax
			}
		}
		prevRow, curRow = curRow, prevRow
	}

	if best >= hi8 || overflow {
		return Result{Status: dpstatus.FilterOverflow, Score: int32(best)}, nil
	}
	return Result{Status: dpstatus.OK, Score: int32(best)}, nil
}
