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

package asc

import (
	"fmt"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/refdp"
)

// Backward fills up (kind ASCBckUp) and down (kind ASCBckDown) with the
// anchor-set-constrained Backward recursion, the exact dual of Forward
// in this file: every cell's value is the logsum, over its outgoing
// edges in Forward's dependency graph, of edge weight plus destination
// backward value, restricted to the same UP/DOWN sector split.
func Backward(up, down *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, anchors *AnchorSet) (float32, error) {
	if up.Kind() != refdp.ASCBckUp {
		return 0, fmt.Errorf("%w: Backward requires an ASCBckUp matrix, got %v", dpstatus.ErrInvalidArgument, up.Kind())
	}
	if down.Kind() != refdp.ASCBckDown {
		return 0, fmt.Errorf("%w: Backward requires an ASCBckDown matrix, got %v", dpstatus.ErrInvalidArgument, down.Kind())
	}
	if err := anchors.validateAgainst(p.M()); err != nil {
		return 0, err
	}

	m, l := p.M(), seq.L()
	up.Grow(m, l)
	down.Grow(m, l)
	xsc := p.XSC()

	up.Reset()
	down.Reset()

	for _, mx := range [2]*refdp.Matrix{up, down} {
		mx.SetC(l, xsc.C.Move)
		mx.SetL(l, logsum.NegInf)
		mx.SetG(l, logsum.NegInf)
		mx.SetB(l, logsum.NegInf)
		mx.SetJ(l, logsum.NegInf)
		mx.SetN(l, logsum.NegInf)
	}
	e := sum(xsc.E.Loop+up.J(l), xsc.E.Move+up.C(l))
	for _, mx := range [2]*refdp.Matrix{up, down} {
		mx.SetE(l, e)
	}
	fillRow(up, down, p, seq, anchors, l, e)

	for i := l - 1; i >= 0; i-- {
		ee := specials(up, down, p, seq, anchors, i)
		fillRow(up, down, p, seq, anchors, i, ee)
	}

	return up.N(0), nil
}

// specials computes row i's shared special-state backward values. Entry
// (L,G) is fed only from up's row i+1 M cells, since only the UP sector
// may be freshly entered; E,J,B,C,N are copied onto both matrices so
// either one's main-cell fill can read them.
func specials(up, down *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, anchors *AnchorSet, i int) float32 {
	m := p.M()
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()
	x1 := int(seq.Residue(i + 1))

	xl, xg := logsum.NegInf, logsum.NegInf
	for k := 1; k <= m; k++ {
		ud, uok := anchors.upDomain(i + 1)
		if !uok || k >= anchors.At(ud).K {
			continue
		}
		xl = logsum.Fast(xl, p.BSC(k)+rsc.Match(x1, k)+up.ML(i+1, k))
		xg = logsum.Fast(xg, tsc.GM(k-1)+rsc.Match(x1, k)+up.MG(i+1, k))
	}
	// A path may also enter the model exactly at an anchor cell, which
	// lives in the DOWN sector (Forward's anchor-cell case reads
	// L(i-1)/G(i-1) directly), so that entry edge is part of L/G's
	// backward value too.
	if dd, dok := anchors.downDomain(i + 1); dok && anchors.At(dd).I == i+1 {
		ka := anchors.At(dd).K
		xl = logsum.Fast(xl, p.BSC(ka)+rsc.Match(x1, ka)+down.ML(i+1, ka))
		xg = logsum.Fast(xg, tsc.GM(ka-1)+rsc.Match(x1, ka)+down.MG(i+1, ka))
	}
	for _, mx := range [2]*refdp.Matrix{up, down} {
		mx.SetL(i, xl)
		mx.SetG(i, xg)
	}

	b := sum(xsc.B.ToLocal+xl, xsc.B.ToGlocal+xg)
	j := sum(xsc.J.Move+b, xsc.J.Loop+up.J(i+1))
	c := xsc.C.Loop + up.C(i+1)
	e := sum(xsc.E.Loop+j, xsc.E.Move+c)
	n := sum(xsc.N.Move+b, xsc.N.Loop+up.N(i+1))

	for _, mx := range [2]*refdp.Matrix{up, down} {
		mx.SetB(i, b)
		mx.SetJ(i, j)
		mx.SetC(i, c)
		mx.SetE(i, e)
		mx.SetN(i, n)
	}
	return e
}

// fillRow computes row i's main-cell backward values for both sectors,
// k from M downto 1, carrying dlNext/dgNext the same way
// refdp.fillBackwardRow does. e is row i's shared E value.
func fillRow(up, down *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, anchors *AnchorSet, i int, e float32) {
	m, l := p.M(), seq.L()
	tsc := p.TSC()
	rsc := p.RSC()
	hasNext := i < l

	var x1 int
	if hasNext {
		x1 = int(seq.Residue(i + 1))
	}

	ud, uok := anchors.upDomain(i)
	var uk int
	if uok {
		uk = anchors.At(ud).K
	}
	dd, dok := anchors.downDomain(i)
	var dk int
	if dok {
		dk = anchors.At(dd).K
	}

	up.SetIL(i, m, logsum.NegInf)
	up.SetIG(i, m, logsum.NegInf)
	down.SetIL(i, m, logsum.NegInf)
	down.SetIG(i, m, logsum.NegInf)

	dlNextU, dgNextU := logsum.NegInf, logsum.NegInf
	dlNextD, dgNextD := logsum.NegInf, logsum.NegInf

	// The UP sector's column bound is always strictly below an anchor's
	// K <= M, so k=M is never UP-admissible; only DOWN's k=M boundary
	// (the glocal M_M/D_M -> E exits, probability 1) needs real values.
	up.SetML(i, m, logsum.NegInf)
	up.SetMG(i, m, logsum.NegInf)
	up.SetDL(i, m, logsum.NegInf)
	up.SetDG(i, m, logsum.NegInf)

	inDownM := dok && m >= dk
	if inDownM {
		down.SetML(i, m, p.ESC(m)+e)
		down.SetMG(i, m, e)
		down.SetDL(i, m, logsum.NegInf)
		down.SetDG(i, m, e)
		dgNextD = e
	} else {
		down.SetML(i, m, logsum.NegInf)
		down.SetMG(i, m, logsum.NegInf)
		down.SetDL(i, m, logsum.NegInf)
		down.SetDG(i, m, logsum.NegInf)
	}

	for k := m - 1; k >= 1; k-- {
		inUp := uok && k < uk
		inDown := dok && k >= dk

		if inUp {
			nextUD, nextOK := anchors.upDomain(i + 1)
			sameUp := hasNext && nextOK && nextUD == ud
			isHandoff := hasNext && !sameUp && uok && k == uk-1 && i+1 == anchors.At(ud).I

			var mlNext, mgNext, ilNext, igNext float32 = logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf
			switch {
			case isHandoff:
				ddAtNext, ok := anchors.downDomain(i + 1)
				if ok && anchors.At(ddAtNext).K == uk {
					mlNext = down.ML(i+1, uk)
					mgNext = down.MG(i+1, uk)
				}
			case sameUp:
				mlNext, mgNext = up.ML(i+1, k+1), up.MG(i+1, k+1)
				ilNext, igNext = up.IL(i+1, k), up.IG(i+1, k)
			}

			ml := sum(
				tsc.MM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
				tsc.MI(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
				tsc.MD(profile.Local, k)+dlNextU,
			)
			mg := sum(
				tsc.MM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
				tsc.MI(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
				tsc.MD(profile.Glocal, k)+dgNextU,
			)
			il := sum(
				tsc.IM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
				tsc.II(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
			)
			ig := sum(
				tsc.IM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
				tsc.II(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
			)
			dl := sum(tsc.DM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext, tsc.DD(profile.Local, k)+dlNextU)
			dg := sum(tsc.DM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext, tsc.DD(profile.Glocal, k)+dgNextU)

			up.SetML(i, k, ml)
			up.SetMG(i, k, mg)
			up.SetIL(i, k, il)
			up.SetIG(i, k, ig)
			up.SetDL(i, k, dl)
			up.SetDG(i, k, dg)
			dlNextU, dgNextU = dl, dg
		} else {
			up.SetML(i, k, logsum.NegInf)
			up.SetMG(i, k, logsum.NegInf)
			up.SetIL(i, k, logsum.NegInf)
			up.SetIG(i, k, logsum.NegInf)
			up.SetDL(i, k, logsum.NegInf)
			up.SetDG(i, k, logsum.NegInf)
			dlNextU, dgNextU = logsum.NegInf, logsum.NegInf
		}

		if inDown {
			nextDD, nextOK := anchors.downDomain(i + 1)
			sameDown := hasNext && nextOK && nextDD == dd

			mlNext, mgNext, ilNext, igNext := logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf
			if sameDown {
				mlNext, mgNext = down.ML(i+1, k+1), down.MG(i+1, k+1)
				ilNext, igNext = down.IL(i+1, k), down.IG(i+1, k)
			}

			ml := sum(
				tsc.MM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
				tsc.MI(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
				tsc.MD(profile.Local, k)+dlNextD,
				p.ESC(k)+e,
			)
			mg := sum(
				tsc.MM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
				tsc.MI(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
				tsc.MD(profile.Glocal, k)+dgNextD,
			)
			il := sum(
				tsc.IM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext,
				tsc.II(profile.Local, k)+rsc.Insert(x1, k)+ilNext,
			)
			ig := sum(
				tsc.IM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext,
				tsc.II(profile.Glocal, k)+rsc.Insert(x1, k)+igNext,
			)
			dl := sum(tsc.DM(profile.Local, k)+rsc.Match(x1, k+1)+mlNext, tsc.DD(profile.Local, k)+dlNextD)
			dg := sum(tsc.DM(profile.Glocal, k)+rsc.Match(x1, k+1)+mgNext, tsc.DD(profile.Glocal, k)+dgNextD)

			down.SetML(i, k, ml)
			down.SetMG(i, k, mg)
			down.SetIL(i, k, il)
			down.SetIG(i, k, ig)
			down.SetDL(i, k, dl)
			down.SetDG(i, k, dg)
			dlNextD, dgNextD = dl, dg
		} else {
			down.SetML(i, k, logsum.NegInf)
			down.SetMG(i, k, logsum.NegInf)
			down.SetIL(i, k, logsum.NegInf)
			down.SetIG(i, k, logsum.NegInf)
			down.SetDL(i, k, logsum.NegInf)
			down.SetDG(i, k, logsum.NegInf)
			dlNextD, dgNextD = logsum.NegInf, logsum.NegInf
		}
	}
}
