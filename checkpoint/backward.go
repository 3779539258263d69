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
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/sparse"
)

// Backward computes the checkpointed Backward score for seq against p,
// using two rotating rows (commandeered from the R0 boundary/live
// slots, since Forward's own rotation is done by the time Backward
// runs), and emits the sparse mask the filter pipeline consumes: as
// each row is computed, its cells are evaluated against a posterior
// threshold and the surviving k-ranges recorded. Like Forward, the
// rows hold linear probabilities; Backward carries its own cumulative
// log-scale, so a cell's posterior combines both directions' scales.
// totsc is the Forward score in nats, which must already have been
// computed on mx.
func Backward(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc, threshold float32) (float32, *sparse.Mask, error) {
	if p.M() != mx.M() {
		return 0, nil, fmt.Errorf("%w: checkpoint.Backward profile M=%d does not match matrix M=%d", dpstatus.ErrInvalidArgument, p.M(), mx.M())
	}
	ly := mx.ly
	m := p.M()
	l := seq.L()
	lp := newLinProfile(p)
	mask := sparse.New(l)

	bufs := [2]*Row{mx.liveA, mx.liveB}
	bufs[0].reset()
	bufs[1].reset()
	cur := bufs[0]
	initBackwardRowL(ly, cur, lp, m)

	for i := l; i >= 0; i-- {
		fwdRow := mx.forwardRowAt(i, lp, seq)
		emitMaskRow(mask, ly, m, fwdRow, cur, totsc, threshold, i)
		if i == 0 {
			return float32(stdmath.Log(float64(cur.N()))) + cur.Scale(), mask, nil
		}
		nxt := bufs[0]
		if cur == bufs[0] {
			nxt = bufs[1]
		}
		nxt.reset()
		e := backwardSpecials(ly, nxt, cur, lp, seq, i-1)
		fillBackwardRow(ly, nxt, cur, lp, seq, i-1, e, true)
		maybeRescale(nxt)
		cur = nxt
	}
	return float32(stdmath.Log(float64(cur.N()))) + cur.Scale(), mask, nil
}

// initBackwardRowL fills row L, which has no row L+1: only the E-J-B-C
// chain and the cells reachable from E survive. C(L) is the C->T move
// probability; everything upstream of E scales from it.
func initBackwardRowL(ly layout, row *Row, lp *linProfile, m int) {
	row.SetC(lp.cMove)
	row.SetJ(0)
	row.SetN(0)
	row.SetB(0)
	e := lp.eLoop*row.J() + lp.eMove*row.C()
	row.SetE(e)
	row.SetJJ(0)
	row.SetCC(lp.eMove * row.C())
	fillBackwardRow(ly, row, nil, lp, dnaseq.Sequence{}, m, e, false)
}

// backwardSpecials computes row i's special-state backward values from
// row i+1 (next), the striped-storage port of refdp.backwardSpecials:
// L/G are transient scalar sums here, not stored (the checkpointed
// row's 8-float special block has no slot for them). It also carries
// next's cumulative log-scale onto row.
func backwardSpecials(ly layout, row, next *Row, lp *linProfile, seq dnaseq.Sequence, i int) float32 {
	m := lp.m
	x1 := int(seq.Residue(i + 1))

	row.SetScale(next.Scale())

	var xl, xg float32
	for k := 1; k <= m; k++ {
		idx := ly.index(k)
		match := lp.matchOdds(x1, k)
		xl += lp.bsc[k] * match * next.ml[idx]
		xg += lp.gm[k-1] * match * next.mg[idx]
	}

	b := lp.bToL*xl + lp.bToG*xg
	row.SetB(b)

	j := lp.jMove*b + lp.jLoop*next.J()
	row.SetJ(j)
	c := lp.cLoop * next.C()
	row.SetC(c)

	e := lp.eLoop*j + lp.eMove*c
	row.SetE(e)
	row.SetJJ(lp.eLoop * j)
	row.SetCC(lp.eMove * c)

	n := lp.nMove*b + lp.nLoop*next.N()
	row.SetN(n)

	return e
}

// fillBackwardRow computes row i's main-cell backward values, the
// striped port of refdp.fillBackwardRow: k=M unrolled
// (I_M absent, D_M^L->E impossible), then k=M-1 downto 1 reading
// next(i+1,k+1) for M, next(i+1,k) for I, and the current row's
// already-stored (i,k+1) D values carried in dlNext/dgNext, the
// deferred-storage trick mirrored for the backward direction.
func fillBackwardRow(ly layout, row, next *Row, lp *linProfile, seq dnaseq.Sequence, i int, e float32, hasNext bool) {
	m := lp.m

	var x1 int
	if hasNext {
		x1 = int(seq.Residue(i + 1))
	}

	mIdx := ly.index(m)
	row.il[mIdx] = 0
	row.ig[mIdx] = 0
	row.ml[mIdx] = lp.esc[m] * e
	row.mg[mIdx] = e
	row.dl[mIdx] = 0
	row.dg[mIdx] = e
	dlNext, dgNext := float32(0), e

	for k := m - 1; k >= 1; k-- {
		idx := ly.index(k)

		var mlNext, mgNext, ilNext, igNext float32
		if hasNext {
			k1idx := ly.index(k + 1)
			mlNext, mgNext = next.ml[k1idx], next.mg[k1idx]
			ilNext, igNext = next.il[idx], next.ig[idx]
		}

		match := lp.matchOdds(x1, k+1)
		ins := lp.insertOdds(x1, k)
		ml := lp.mm[profile.Local][k]*match*mlNext +
			lp.mi[profile.Local][k]*ins*ilNext +
			lp.md[profile.Local][k]*dlNext +
			lp.esc[k]*e
		mg := lp.mm[profile.Glocal][k]*match*mgNext +
			lp.mi[profile.Glocal][k]*ins*igNext +
			lp.md[profile.Glocal][k]*dgNext
		il := lp.im[profile.Local][k]*match*mlNext + lp.ii[profile.Local][k]*ins*ilNext
		ig := lp.im[profile.Glocal][k]*match*mgNext + lp.ii[profile.Glocal][k]*ins*igNext
		dl := lp.dm[profile.Local][k]*match*mlNext + lp.dd[profile.Local][k]*dlNext
		dg := lp.dm[profile.Glocal][k]*match*mgNext + lp.dd[profile.Glocal][k]*dgNext

		row.ml[idx], row.mg[idx] = ml, mg
		row.il[idx], row.ig[idx] = il, ig
		row.dl[idx], row.dg[idx] = dl, dg
		dlNext, dgNext = dl, dg
	}
}

// emitMaskRow evaluates row i's cells against threshold, combining
// fwdRow and bckRow into a posterior mass without materializing a
// dense Decoding matrix, and records surviving k-ranges into mask.
func emitMaskRow(mask *sparse.Mask, ly layout, m int, fwdRow, bckRow *Row, totsc, threshold float32, i int) {
	if i < 1 || i > mask.L() {
		return
	}
	fwdScale := fwdRow.Scale()
	bckScale := bckRow.Scale()
	ka := -1
	for k := 1; k <= m; k++ {
		idx := ly.index(k)
		mass := cellMass(fwdRow.ml[idx], bckRow.ml[idx], fwdScale, bckScale, totsc) +
			cellMass(fwdRow.mg[idx], bckRow.mg[idx], fwdScale, bckScale, totsc) +
			cellMass(fwdRow.dl[idx], bckRow.dl[idx], fwdScale, bckScale, totsc) +
			cellMass(fwdRow.dg[idx], bckRow.dg[idx], fwdScale, bckScale, totsc)
		if k < m {
			mass += cellMass(fwdRow.il[idx], bckRow.il[idx], fwdScale, bckScale, totsc) +
				cellMass(fwdRow.ig[idx], bckRow.ig[idx], fwdScale, bckScale, totsc)
		}
		if mass >= threshold {
			if ka == -1 {
				ka = k
			}
			continue
		}
		if ka != -1 {
			mask.AddRange(i, ka, k-1)
			ka = -1
		}
	}
	if ka != -1 {
		mask.AddRange(i, ka, m)
	}
}

// cellMass recovers one cell's posterior probability from the two
// directions' scaled linear values: log(fwd)+fwdScale is the unscaled
// forward log value, likewise backward, and totsc (nats) normalizes.
func cellMass(fwdVal, bckVal, fwdScale, bckScale, totsc float32) float32 {
	if fwdVal == 0 || bckVal == 0 {
		return 0
	}
	logMass := float32(stdmath.Log(float64(fwdVal))) + fwdScale +
		float32(stdmath.Log(float64(bckVal))) + bckScale - totsc
	return float32(stdmath.Exp(float64(logMass)))
}
