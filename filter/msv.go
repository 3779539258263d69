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

const negInf8 = int8(lo8)

// Result is the outcome of a filter pre-screen: a status (always one of
// dpstatus.OK, dpstatus.FilterOverflow or dpstatus.FilterNoResult for
// the filter stages) and, when OK or FilterOverflow, the best score
// this filter found, in the same fixed-point units the filter computed
// in (not nats — a caller that wants to compare against a nats
// threshold must account for the filter's scale).
type Result struct {
	Status dpstatus.Status
	Score  int32
}

// MSV runs the multi-segment ungapped filter (match states only, no
// gaps) over seq against p in 8-bit saturating
// arithmetic. It is the single-state restriction of refdp's Viterbi
// recursion (core.go's forwardLikeRecursion): no I/D lanes, no
// internal M->M transition score (MSV treats consecutive match
// positions as implicitly connected), only the B/E/J/N/C loop
// structure that lets the filter detect multiple ungapped domains in
// one pass. The recursion is striped exactly as package checkpoint's
// float32 rows are, just over
// lane.Vec[int8] instead of lane.Vec[float32].
//
// mx is the workspace: MSV's two byte rows are carved out of the same
// allocation the checkpointed Forward/Backward later reuses, so the
// filter stages and the checkpoint stage share one block of memory.
func MSV(mx *checkpoint.Matrix, p *profile.Profile, seq dnaseq.Sequence) (Result, error) {
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

	n, j, b, c := int8(0), negInf8, negInf8, negInf8
	overflow := false

	xsc := p.XSC()
	eLoop, eMove := quantize8(xsc.E.Loop), quantize8(xsc.E.Move)
	jLoop, jMove := quantize8(xsc.J.Loop), quantize8(xsc.J.Move)
	nLoop, nMove := quantize8(xsc.N.Loop), quantize8(xsc.N.Move)
	cLoop, cMove := quantize8(xsc.C.Loop), quantize8(xsc.C.Move)

	for i := 1; i <= l; i++ {
		x := int(seq.Residue(i))
		b = max8(satAdd8(n, nMove), satAdd8(j, jMove))

		e := negInf8
		for q := 0; q < ly.q; q++ {
			var prevK1 lane.Vec[int8]
			if q == 0 {
				prevK1 = lane.Rotate(loadVec8(prevRow, ly, ly.q-1), negInf8)
			} else {
				prevK1 = loadVec8(prevRow, ly, q-1)
			}

			bscVec := bscVec8(ly, p, q)
			embVec := embVec8(ly, p, q, x)

			entry := addScalarVec8(bscVec, b)
			base := lane.Max(prevK1, entry)
			cell := lane.SaturatedAdd(base, embVec)
			cell.Store(curRow[q*ly.v : (q+1)*ly.v])

			if lane.Overflowed(cell) {
				overflow = true
			}
			rowMax := lane.ReduceMax(maskPadding8(ly, q, cell))
			if rowMax > e {
				e = rowMax
			}
		}

		j = max8(satAdd8(j, jLoop), satAdd8(e, eLoop))
		n = satAdd8(n, nLoop)
		c = max8(satAdd8(c, cLoop), satAdd8(e, eMove))

		prevRow, curRow = curRow, prevRow
	}

	score := satAdd8(c, cMove)
	if score >= hi8 || overflow {
		return Result{Status: dpstatus.FilterOverflow, Score: int32(score)}, nil
	}
	return Result{Status: dpstatus.OK, Score: int32(score)}, nil
}

// preflightMSV checks that the profile's own most favorable one-step
// combination (enter, emit best residue, exit) does not already sit at
// the saturation ceiling before any residue is scored; if it does, the
// filter has no usable headroom and must report no-result.
func preflightMSV(p *profile.Profile) bool {
	xsc := p.XSC()
	worstBegin := quantize8(xsc.B.ToLocal)
	bestBSC := int8(negInf8)
	bestEmit := int8(negInf8)
	rsc := p.RSC()
	for k := 1; k <= p.M(); k++ {
		if q := quantize8(p.BSC(k)); q > bestBSC {
			bestBSC = q
		}
		for x := 0; x < p.K(); x++ {
			if q := quantize8(rsc.Match(x, k)); q > bestEmit {
				bestEmit = q
			}
		}
	}
	sum := int32(worstBegin) + int32(bestBSC) + int32(bestEmit) + int32(quantize8(xsc.E.Move)) + int32(quantize8(xsc.C.Move))
	return preflightCeiling(sum, hi8)
}

func fillRow8(row []int8, v int8) {
	for i := range row {
		row[i] = v
	}
}

// loadVec8 reads vector q of a flat striped row into a Vec.
func loadVec8(row []int8, ly layout, q int) lane.Vec[int8] {
	return lane.Load(row[q*ly.v:(q+1)*ly.v], ly.v)
}

func bscVec8(ly layout, p *profile.Profile, q int) lane.Vec[int8] {
	data := make([]int8, ly.v)
	for z := 0; z < ly.v; z++ {
		k := ly.kOf(q, z)
		if k > p.M() {
			data[z] = negInf8
			continue
		}
		data[z] = quantize8(p.BSC(k))
	}
	return lane.Load(data, ly.v)
}

func embVec8(ly layout, p *profile.Profile, q, x int) lane.Vec[int8] {
	data := make([]int8, ly.v)
	rsc := p.RSC()
	for z := 0; z < ly.v; z++ {
		k := ly.kOf(q, z)
		if k > p.M() {
			data[z] = negInf8
			continue
		}
		data[z] = quantize8(rsc.Match(x, k))
	}
	return lane.Load(data, ly.v)
}

func addScalarVec8(v lane.Vec[int8], scalar int8) lane.Vec[int8] {
	return lane.SaturatedAdd(v, lane.Set(scalar, v.NumLanes()))
}

// maskPadding8 returns cell with any lane whose k exceeds M forced back
// to negInf8, so a row-max reduction never picks up padding garbage.
func maskPadding8(ly layout, q int, cell lane.Vec[int8]) lane.Vec[int8] {
	data := make([]int8, cell.NumLanes())
	for z := 0; z < cell.NumLanes(); z++ {
		if ly.kOf(q, z) > ly.m {
			data[z] = negInf8
			continue
		}
		data[z] = cell.Lane(z)
	}
	return lane.Load(data, len(data))
}

func satAdd8(a, b int8) int8 {
	return lane.SaturatedAdd(lane.Set(a, 1), lane.Set(b, 1)).Lane(0)
}

func max8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}
