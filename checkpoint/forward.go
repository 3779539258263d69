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

import (
	"fmt"
	stdmath "math"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/lane"
	"github.com/nilsvik/phmmcore/profile"
)

// rescaleThreshold is the linear magnitude that triggers a row rescale.
// Unlike the log-space reference matrices, rows here hold unscaled
// probabilities (odds ratios), which really do grow toward float32's
// ceiling on long, well-matching sequences; dividing the whole row back
// down by its maximum and folding the factor into SCALE is what keeps
// the fill in single precision. float32 tops out near 3.4e38, so 1e30
// leaves headroom for the sums of products one more row can form.
const rescaleThreshold = float32(1e30)

// Forward fills mx's checkpointed rows for seq against p in linear
// probability space, retaining only the "all" and checkpoint-block-final
// rows. It returns the Forward score in nats: log of the scaled C(L)
// cell, plus the row's accumulated log-scale, plus the C->T move.
func Forward(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if p.M() != mx.M() {
		return 0, fmt.Errorf("%w: checkpoint.Forward profile M=%d does not match matrix M=%d", dpstatus.ErrInvalidArgument, p.M(), mx.M())
	}
	mx.ResetRows()
	l := seq.L()
	lp := newLinProfile(p)

	initBoundaryRow(mx.boundary, lp)
	prev := mx.boundary

	for i := 1; i <= l; i++ {
		cur := mx.liveRowFor(prev)
		x := int(seq.Residue(i))
		stepForward(mx.ly, prev, cur, lp, x)
		maybeRescale(cur)
		retainIfNeeded(mx, i, cur)
		prev = cur
	}

	return float32(stdmath.Log(float64(prev.C()))) + prev.Scale() + p.XSC().C.Move, nil
}

// liveRowFor returns the rotating buffer distinct from prev, so prev's
// data survives the write that computes the next row.
func (mx *Matrix) liveRowFor(prev *Row) *Row {
	if prev == mx.liveA {
		return mx.liveB
	}
	return mx.liveA
}

// retainIfNeeded copies cur into its permanent slot when row i is
// retained (all-region or a checkpoint block's final row), so it
// survives later rotation-buffer reuse.
func retainIfNeeded(mx *Matrix, i int, cur *Row) {
	dst, ok := mx.RetainedRow(i)
	if !ok || dst == cur {
		return
	}
	copyRow(dst, cur)
}

func copyRow(dst, src *Row) {
	copy(dst.ml, src.ml)
	copy(dst.mg, src.mg)
	copy(dst.il, src.il)
	copy(dst.ig, src.ig)
	copy(dst.dl, src.dl)
	copy(dst.dg, src.dg)
	copy(dst.special, src.special)
}

// initBoundaryRow fills row i=0, shared by every DP routine's
// initialization: N(0)=1, B(0)=p(N->B), everything else at probability
// 0, log-scale 0.
func initBoundaryRow(row *Row, lp *linProfile) {
	row.reset()
	row.SetN(1)
	row.SetB(lp.nMove)
}

// stepForward computes row cur from row prev (prev=row i-1) for
// residue x at row i, in linear probability space: every logsum in the
// reference recursion becomes an add, every score add a multiply. The
// recursion order is refdp.forwardLikeRecursion's exactly: ascending k,
// one-cell deferred D storage, k=M unrolled,
// E-before-J-before-B-before-C.
func stepForward(ly layout, prev, cur *Row, lp *linProfile, x int) {
	m := lp.m

	cur.SetScale(prev.Scale())
	lEntry := prev.B() * lp.bToL
	gEntry := prev.B() * lp.bToG

	dlv, dgv := float32(0), float32(0)
	for k := 1; k <= m; k++ {
		idx := ly.index(k)
		cur.dl[idx] = dlv
		cur.dg[idx] = dgv

		var mlPrev, ilPrev, dlPrev, mgPrev, igPrev, dgPrev float32
		if k > 1 {
			pidx := ly.index(k - 1)
			mlPrev, ilPrev, dlPrev = prev.ml[pidx], prev.il[pidx], prev.dl[pidx]
			mgPrev, igPrev, dgPrev = prev.mg[pidx], prev.ig[pidx], prev.dg[pidx]
		}

		match := lp.matchOdds(x, k)
		ml := (mlPrev*lp.mm[profile.Local][k-1] +
			ilPrev*lp.im[profile.Local][k-1] +
			dlPrev*lp.dm[profile.Local][k-1] +
			lEntry*lp.bsc[k]) * match
		mg := (mgPrev*lp.mm[profile.Glocal][k-1] +
			igPrev*lp.im[profile.Glocal][k-1] +
			dgPrev*lp.dm[profile.Glocal][k-1] +
			gEntry*lp.gm[k-1]) * match
		cur.ml[idx] = ml
		cur.mg[idx] = mg

		if k < m {
			ins := lp.insertOdds(x, k)
			il := (prev.ml[idx]*lp.mi[profile.Local][k] + prev.il[idx]*lp.ii[profile.Local][k]) * ins
			ig := (prev.mg[idx]*lp.mi[profile.Glocal][k] + prev.ig[idx]*lp.ii[profile.Glocal][k]) * ins
			cur.il[idx] = il
			cur.ig[idx] = ig

			dlv = ml*lp.md[profile.Local][k] + cur.dl[idx]*lp.dd[profile.Local][k]
			dgv = mg*lp.md[profile.Glocal][k] + cur.dg[idx]*lp.dd[profile.Glocal][k]
		} else {
			cur.il[idx] = 0
			cur.ig[idx] = 0
		}
	}

	var e float32
	for k := 1; k <= m; k++ {
		e += cur.ml[ly.index(k)] * lp.esc[k]
	}
	mIdx := ly.index(m)
	e += cur.mg[mIdx] + cur.dg[mIdx]
	cur.SetE(e)

	cur.SetJ(prev.J()*lp.jLoop + e*lp.eLoop)
	cur.SetN(prev.N() * lp.nLoop)
	cur.SetB(cur.N()*lp.nMove + cur.J()*lp.jMove)
	cur.SetC(prev.C()*lp.cLoop + e*lp.eMove)
	cur.SetJJ(e * lp.eLoop)
	cur.SetCC(e * lp.eMove)
}

// maybeRescale checks row's main-cell maximum, via lane.ReduceMax over
// each striped state vector (the one point in this row recursion that
// is genuinely a whole-row vector reduction rather than a k-sequential
// dependency), against rescaleThreshold. If exceeded, every cell and
// special in the row is divided by that maximum — probability-0 cells
// stay exactly 0 — and the factor's log is folded into the row's
// cumulative SCALE, so log(cell)+SCALE always recovers the unscaled
// log value.
func maybeRescale(row *Row) {
	var maxVal float32
	for _, s := range [][]float32{row.ml, row.mg, row.il, row.ig} {
		v := lane.ReduceMax(lane.Load(s, len(s)))
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal < rescaleThreshold {
		return
	}
	inv := 1 / maxVal
	for _, s := range [][]float32{row.ml, row.mg, row.il, row.ig, row.dl, row.dg} {
		for i := range s {
			s[i] *= inv
		}
	}
	row.SetE(row.E() * inv)
	row.SetN(row.N() * inv)
	row.SetJJ(row.JJ() * inv)
	row.SetJ(row.J() * inv)
	row.SetB(row.B() * inv)
	row.SetCC(row.CC() * inv)
	row.SetC(row.C() * inv)
	row.SetScale(row.Scale() + float32(stdmath.Log(float64(maxVal))))
}
