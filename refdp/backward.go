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

package refdp

import (
	"fmt"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
)

// RunBackward fills mx (kind Bck) with the reverse-direction log-odds
// scores for seq against p and returns the Backward score, N(0). mx
// must already be tagged Bck.
//
// The recursion below is built as the exact dual of forwardLikeRecursion
// in core.go: every cell's backward value is the logsum, over that
// cell's outgoing edges in the forward recursion's dependency graph, of
// (edge weight + destination's backward value). Building it this way
// guarantees RunForward(gm,x) == RunBackward(gm,x) as long as the two
// recursions agree on the graph, which is easier to keep true than
// transcribing a second, independently-derived formula.
func RunBackward(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if mx.Kind() != Bck {
		return 0, fmt.Errorf("%w: RunBackward requires a Bck matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return backwardRecursion(mx, p, seq, nil), nil
}

// backwardRecursion fills mx exactly as RunBackward describes. gate,
// when non-nil, restricts which (i,k) main cells are computed, the same
// restriction forwardLikeRecursion applies for Viterbi/Forward (package
// sparse passes a mask-backed gate so Backward can be restricted
// without a second copy of the recursion).
func backwardRecursion(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, gate cellGate) float32 {
	l := seq.L()
	xsc := p.XSC()

	mx.Reset()

	// Row L: there is no row L+1, so every edge crossing into it
	// vanishes. Only the same-row E/J/B/C/N chain and the plain
	// M_k->E exit survive.
	mx.SetC(l, xsc.C.Move)
	mx.SetL(l, logsum.NegInf)
	mx.SetG(l, logsum.NegInf)
	mx.SetB(l, logsum.NegInf)
	mx.SetJ(l, logsum.NegInf)
	mx.SetN(l, logsum.NegInf)
	e := sumCombine(xsc.E.Loop+mx.J(l), xsc.E.Move+mx.C(l))
	mx.SetE(l, e)
	fillBackwardRow(mx, p, seq, l, e, gate)

	for i := l - 1; i >= 0; i-- {
		e := backwardSpecials(mx, p, seq, i, gate)
		fillBackwardRow(mx, p, seq, i, e, gate)
	}

	return mx.N(0)
}

// backwardSpecials computes row i's special-state backward values, in
// the dependency order L,G -> B -> J,C -> E -> N: the special states
// are computed first for row i using row i+1's J/N/C and the
// row-i-already-computed {G,L,E,B,J,C}. It returns E(i), the value
// fillBackwardRow needs for the row's M_k->E and D_M^G->E exits.
func backwardSpecials(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, i int, gate cellGate) float32 {
	m := p.M()
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()
	x1 := int(seq.Residue(i + 1))

	xl, xg := logsum.NegInf, logsum.NegInf
	for k := 1; k <= m; k++ {
		if !gate.allows(i+1, k) {
			continue
		}
		xl = logsum.Fast(xl, p.BSC(k)+rsc.Match(x1, k)+mx.ML(i+1, k))
		xg = logsum.Fast(xg, tsc.GM(k-1)+rsc.Match(x1, k)+mx.MG(i+1, k))
	}
	mx.SetL(i, xl)
	mx.SetG(i, xg)

	b := sumCombine(xsc.B.ToLocal+xl, xsc.B.ToGlocal+xg)
	mx.SetB(i, b)

	j := sumCombine(xsc.J.Move+b, xsc.J.Loop+mx.J(i+1))
	mx.SetJ(i, j)
	c := xsc.C.Loop + mx.C(i+1)
	mx.SetC(i, c)

	e := sumCombine(xsc.E.Loop+j, xsc.E.Move+c)
	mx.SetE(i, e)

	n := sumCombine(xsc.N.Move+b, xsc.N.Loop+mx.N(i+1))
	mx.SetN(i, n)

	return e
}

// fillBackwardRow computes row i's main-cell backward values, reading
// (i+1,k+1) for M via MM, (i+1,k) for I, and the current row's
// already-stored (i,k+1) for
// D, iterating k from M downto 1 with dlNext/dgNext carrying the
// already-computed (i,k+1) D values (the mirror of core.go's dlv/dgv).
// e is row i's already-computed E value. When i is the matrix's last
// row there is no row i+1, so every term reading it drops out, which is
// what collapses that row's M/D cells to the bare E-exit value. gate
// restricts which (i,k) cells are actually computed, same meaning as
// forwardLikeRecursion's gate.
func fillBackwardRow(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, i int, e float32, gate cellGate) {
	m, l := p.M(), seq.L()
	tsc := p.TSC()
	rsc := p.RSC()
	hasNext := i < l

	var x1 int
	if hasNext {
		x1 = int(seq.Residue(i + 1))
	}

	mx.SetIL(i, m, logsum.NegInf)
	mx.SetIG(i, m, logsum.NegInf)
	dlNext := logsum.NegInf
	dgNext := e
	if gate.allows(i, m) {
		mx.SetML(i, m, p.ESC(m)+e)
		mx.SetMG(i, m, e)
		mx.SetDL(i, m, logsum.NegInf)
		mx.SetDG(i, m, e)
	} else {
		mx.SetML(i, m, logsum.NegInf)
		mx.SetMG(i, m, logsum.NegInf)
		mx.SetDL(i, m, logsum.NegInf)
		mx.SetDG(i, m, logsum.NegInf)
		dlNext, dgNext = logsum.NegInf, logsum.NegInf
	}

	for k := m - 1; k >= 1; k-- {
		if !gate.allows(i, k) {
			mx.SetML(i, k, logsum.NegInf)
			mx.SetMG(i, k, logsum.NegInf)
			mx.SetIL(i, k, logsum.NegInf)
			mx.SetIG(i, k, logsum.NegInf)
			mx.SetDL(i, k, logsum.NegInf)
			mx.SetDG(i, k, logsum.NegInf)
			dlNext, dgNext = logsum.NegInf, logsum.NegInf
			continue
		}

		mlNext, mgNext := logsum.NegInf, logsum.NegInf
		ilNext, igNext := logsum.NegInf, logsum.NegInf
		if hasNext && gate.allows(i+1, k+1) {
			mlNext = mx.ML(i+1, k+1)
			mgNext = mx.MG(i+1, k+1)
		}
		if hasNext && gate.allows(i+1, k) {
			ilNext = mx.IL(i+1, k)
			igNext = mx.IG(i+1, k)
		}

		ml := sumCombine(
			tsc.MM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
			tsc.MI(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
			tsc.MD(profile.Local, k)+dlNext,
			p.ESC(k)+e,
		)
		mg := sumCombine(
			tsc.MM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
			tsc.MI(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
			tsc.MD(profile.Glocal, k)+dgNext,
		)
		il := sumCombine(
			tsc.IM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
			tsc.II(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
		)
		ig := sumCombine(
			tsc.IM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
			tsc.II(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
		)
		dl := sumCombine(
			tsc.DM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
			tsc.DD(profile.Local, k)+dlNext,
		)
		dg := sumCombine(
			tsc.DM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
			tsc.DD(profile.Glocal, k)+dgNext,
		)

		mx.SetML(i, k, ml)
		mx.SetMG(i, k, mg)
		mx.SetIL(i, k, il)
		mx.SetIG(i, k, ig)
		mx.SetDL(i, k, dl)
		mx.SetDG(i, k, dg)

		dlNext, dgNext = dl, dg
	}
}
