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

const negInf16 = int16(lo16)

// vitRow is one flat, vector-major filter row: six Q*V-lane state
// slices (ML, MG, IL, IG, DL, DG) plus the scalar special states, the
// int16 analogue of package checkpoint's Row. The six slices are views
// into a caller-provided buffer, not allocations of their own.
type vitRow struct {
	ml, mg, il, ig, dl, dg []int16
	e, n, jj, j, b, cc, c  int16
}

// newVitRow slices one row's six state vectors out of buf, which must
// hold at least 6*ly.qv() int16 lanes.
func newVitRow(ly layout, buf []int16) *vitRow {
	qv := ly.qv()
	r := &vitRow{
		ml: buf[0*qv : 1*qv], mg: buf[1*qv : 2*qv],
		il: buf[2*qv : 3*qv], ig: buf[3*qv : 4*qv],
		dl: buf[4*qv : 5*qv], dg: buf[5*qv : 6*qv],
	}
	r.reset()
	return r
}

func (r *vitRow) reset() {
	for _, s := range [][]int16{r.ml, r.mg, r.il, r.ig, r.dl, r.dg} {
		for i := range s {
			s[i] = negInf16
		}
	}
	r.e, r.n, r.jj, r.j, r.b, r.cc, r.c = negInf16, negInf16, negInf16, negInf16, negInf16, negInf16, negInf16
}

// Viterbi runs the full-state-machine filter
// over seq against p in 16-bit saturating arithmetic:
// the int16 analogue of refdp's forwardLikeRecursion with maxCombine
// (core.go), restricted to one row of history at a time since the
// filter only needs a score, not a traceback. Its two rows are carved
// out of mx's allocation, reinterpreted as int16 lanes.
func Viterbi(mx *checkpoint.Matrix, p *profile.Profile, seq dnaseq.Sequence) (Result, error) {
	if ok := preflightViterbi(p); !ok {
		return Result{Status: dpstatus.FilterNoResult}, nil
	}

	ly := newLayout[int16](p.M())
	qv := ly.qv()
	buf, err := wide16(mx, 12*qv)
	if err != nil {
		return Result{Status: dpstatus.MemoryError}, err
	}
	l := seq.L()

	prev := newVitRow(ly, buf[:6*qv])
	cur := newVitRow(ly, buf[6*qv:12*qv])
	overflow := false

	xsc := p.XSC()
	prev.n = 0
	prev.b = satAdd16(prev.n, quantize16(xsc.N.Move))

	for i := 1; i <= l; i++ {
		x := int(seq.Residue(i))
		if stepViterbi(ly, prev, cur, p, x) {
			overflow = true
		}
		prev, cur = cur, prev
	}

	score := satAdd16(prev.c, quantize16(xsc.C.Move))
	if score >= hi16 || overflow {
		return Result{Status: dpstatus.FilterOverflow, Score: int32(score)}, nil
	}
	return Result{Status: dpstatus.OK, Score: int32(score)}, nil
}

// stepViterbi computes row cur from row prev for residue x, mirroring
// checkpoint.stepForward's recursion order exactly (ascending k,
// one-cell deferred D storage, k=M unrolled, E-before-J-before-B-
// before-C) with each sum over predecessors replaced by max16 and every
// score addition replaced by a saturating add. Returns whether any
// cell saturated to the int16 ceiling this row.
func stepViterbi(ly layout, prev, cur *vitRow, p *profile.Profile, x int) bool {
	m := p.M()
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()
	overflow := false

	lEntry := satAdd16(prev.b, quantize16(xsc.B.ToLocal))
	gEntry := satAdd16(prev.b, quantize16(xsc.B.ToGlocal))

	dlv, dgv := negInf16, negInf16
	for k := 1; k <= m; k++ {
		idx := ly.index(k)
		cur.dl[idx] = dlv
		cur.dg[idx] = dgv

		var mlPrev, ilPrev, dlPrev, mgPrev, igPrev, dgPrev int16
		if k > 1 {
			pidx := ly.index(k - 1)
			mlPrev, ilPrev, dlPrev = prev.ml[pidx], prev.il[pidx], prev.dl[pidx]
			mgPrev, igPrev, dgPrev = prev.mg[pidx], prev.ig[pidx], prev.dg[pidx]
		} else {
			mlPrev, ilPrev, dlPrev = negInf16, negInf16, negInf16
			mgPrev, igPrev, dgPrev = negInf16, negInf16, negInf16
		}

		emit := quantize16(rsc.Match(x, k))
		mlPreEmit := max16(
			max16(satAdd16(mlPrev, quantize16(tsc.MM(profile.Local, k-1))), satAdd16(ilPrev, quantize16(tsc.IM(profile.Local, k-1)))),
			max16(satAdd16(dlPrev, quantize16(tsc.DM(profile.Local, k-1))), satAdd16(lEntry, quantize16(p.BSC(k)))),
		)
		mgPreEmit := max16(
			max16(satAdd16(mgPrev, quantize16(tsc.MM(profile.Glocal, k-1))), satAdd16(igPrev, quantize16(tsc.IM(profile.Glocal, k-1)))),
			max16(satAdd16(dgPrev, quantize16(tsc.DM(profile.Glocal, k-1))), satAdd16(gEntry, quantize16(tsc.GM(k-1)))),
		)
		ml := satAdd16(mlPreEmit, emit)
		mg := satAdd16(mgPreEmit, emit)
		cur.ml[idx] = ml
		cur.mg[idx] = mg

		if k < m {
			insEmitL := quantize16(rsc.Insert(x, k))
			il := satAdd16(max16(satAdd16(prev.ml[idx], quantize16(tsc.MI(profile.Local, k))), satAdd16(prev.il[idx], quantize16(tsc.II(profile.Local, k)))), insEmitL)
			ig := satAdd16(max16(satAdd16(prev.mg[idx], quantize16(tsc.MI(profile.Glocal, k))), satAdd16(prev.ig[idx], quantize16(tsc.II(profile.Glocal, k)))), insEmitL)
			cur.il[idx] = il
			cur.ig[idx] = ig

			dlv = max16(satAdd16(ml, quantize16(tsc.MD(profile.Local, k))), satAdd16(cur.dl[idx], quantize16(tsc.DD(profile.Local, k))))
			dgv = max16(satAdd16(mg, quantize16(tsc.MD(profile.Glocal, k))), satAdd16(cur.dg[idx], quantize16(tsc.DD(profile.Glocal, k))))
		} else {
			cur.il[idx] = negInf16
			cur.ig[idx] = negInf16
		}

		if ml >= hi16 || mg >= hi16 {
			overflow = true
		}
	}

	e := negInf16
	for k := 1; k <= m; k++ {
		e = max16(e, satAdd16(cur.ml[ly.index(k)], quantize16(p.ESC(k))))
	}
	mIdx := ly.index(m)
	e = max16(e, max16(cur.mg[mIdx], cur.dg[mIdx]))
	cur.e = e

	cur.j = max16(satAdd16(prev.j, quantize16(xsc.J.Loop)), satAdd16(e, quantize16(xsc.E.Loop)))
	cur.n = satAdd16(prev.n, quantize16(xsc.N.Loop))
	cur.b = max16(satAdd16(cur.n, quantize16(xsc.N.Move)), satAdd16(cur.j, quantize16(xsc.J.Move)))
	cur.c = max16(satAdd16(prev.c, quantize16(xsc.C.Loop)), satAdd16(e, quantize16(xsc.E.Move)))
	cur.jj = satAdd16(e, quantize16(xsc.E.Loop))
	cur.cc = satAdd16(e, quantize16(xsc.E.Move))

	return overflow
}

// preflightViterbi applies the same ceiling pre-check as MSV/SSV but
// in the int16 fixed-point units this filter runs in.
func preflightViterbi(p *profile.Profile) bool {
	xsc := p.XSC()
	worstBegin := quantize16(xsc.B.ToLocal)
	bestBSC := negInf16
	bestEmit := negInf16
	rsc := p.RSC()
	for k := 1; k <= p.M(); k++ {
		if q := quantize16(p.BSC(k)); q > bestBSC {
			bestBSC = q
		}
		for x := 0; x < p.K(); x++ {
			if q := quantize16(rsc.Match(x, k)); q > bestEmit {
				bestEmit = q
			}
		}
	}
	sum := int32(worstBegin) + int32(bestBSC) + int32(bestEmit) + int32(quantize16(xsc.E.Move)) + int32(quantize16(xsc.C.Move))
	return preflightCeiling(sum, hi16)
}

func satAdd16(a, b int16) int16 {
	return lane.SaturatedAdd(lane.Set(a, 1), lane.Set(b, 1)).Lane(0)
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}
