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

func sum(vals ...float32) float32 {
	acc := logsum.NegInf
	for _, v := range vals {
		acc = logsum.Fast(acc, v)
	}
	return acc
}

// Forward fills up (kind ASCFwdUp) and down (kind ASCFwdDown) with the
// anchor-set-constrained Forward recursion and returns the
// constrained score. The special-state chain (N,E,J,B,L,G,C) is the
// ordinary Forward chain, computed once per row; it is what a path uses
// to cross between one domain's DOWN sector and the next domain's UP
// sector. Each row's main cells are split into up's entry-only sector
// (k strictly below the pending anchor's K, row strictly below its I)
// and down's exit-only sector (k from the active anchor's K onward, row
// from its I onward): that split is exactly what distinguishes ASC
// Forward from the unconstrained recursion in refdp.
func Forward(up, down *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, anchors *AnchorSet) (float32, error) {
	if up.Kind() != refdp.ASCFwdUp {
		return 0, fmt.Errorf("%w: Forward requires an ASCFwdUp matrix, got %v", dpstatus.ErrInvalidArgument, up.Kind())
	}
	if down.Kind() != refdp.ASCFwdDown {
		return 0, fmt.Errorf("%w: Forward requires an ASCFwdDown matrix, got %v", dpstatus.ErrInvalidArgument, down.Kind())
	}
	if err := anchors.validateAgainst(p.M()); err != nil {
		return 0, err
	}

	m, l := p.M(), seq.L()
	up.Grow(m, l)
	down.Grow(m, l)
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()

	up.Reset()
	down.Reset()

	initRow := func(mx *refdp.Matrix) {
		mx.SetN(0, 0)
		mx.SetB(0, xsc.N.Move)
		mx.SetL(0, mx.B(0)+xsc.B.ToLocal)
		mx.SetG(0, mx.B(0)+xsc.B.ToGlocal)
		mx.SetE(0, logsum.NegInf)
		mx.SetJ(0, logsum.NegInf)
		mx.SetC(0, logsum.NegInf)
	}
	initRow(up)
	initRow(down)

	for i := 1; i <= l; i++ {
		x := int(seq.Residue(i))

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

		dlvU, dgvU := logsum.NegInf, logsum.NegInf
		dlvD, dgvD := logsum.NegInf, logsum.NegInf

		for k := 1; k <= m; k++ {
			up.SetDL(i, k, dlvU)
			up.SetDG(i, k, dgvU)
			down.SetDL(i, k, dlvD)
			down.SetDG(i, k, dgvD)

			inUp := uok && k < uk
			inDown := dok && k >= dk

			if inUp {
				// The B/L/G fresh-entry term is always legal (it already
				// routes through the shared N/J/E chain); the M/I/D
				// chain-continuation terms are legal only when row i-1
				// belonged to this same domain's UP sector. Without that
				// check a path could drift through part of an earlier
				// domain's UP region, at columns below this domain's
				// anchor, and slip into this domain without ever
				// satisfying the earlier domain's own anchor.
				prevUD, prevOK := anchors.upDomain(i - 1)
				sameUp := prevOK && prevUD == ud

				mlPrevML, mlPrevIL, mlPrevDL := logsum.NegInf, logsum.NegInf, logsum.NegInf
				mgPrevMG, mgPrevIG, mgPrevDG := logsum.NegInf, logsum.NegInf, logsum.NegInf
				ilPrevML, ilPrevIL, igPrevMG, igPrevIG := logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf
				if sameUp {
					mlPrevML, mlPrevIL, mlPrevDL = up.ML(i-1, k-1), up.IL(i-1, k-1), up.DL(i-1, k-1)
					mgPrevMG, mgPrevIG, mgPrevDG = up.MG(i-1, k-1), up.IG(i-1, k-1), up.DG(i-1, k-1)
					ilPrevML, ilPrevIL = up.ML(i-1, k), up.IL(i-1, k)
					igPrevMG, igPrevIG = up.MG(i-1, k), up.IG(i-1, k)
				}

				ml := sum(
					mlPrevML+tsc.MM(profile.Local, k-1),
					mlPrevIL+tsc.IM(profile.Local, k-1),
					mlPrevDL+tsc.DM(profile.Local, k-1),
					up.L(i-1)+p.BSC(k),
				) + rsc.Match(x, k)
				mg := sum(
					mgPrevMG+tsc.MM(profile.Glocal, k-1),
					mgPrevIG+tsc.IM(profile.Glocal, k-1),
					mgPrevDG+tsc.DM(profile.Glocal, k-1),
					up.G(i-1)+tsc.GM(k-1),
				) + rsc.Match(x, k)
				up.SetML(i, k, ml)
				up.SetMG(i, k, mg)
				if k < m {
					il := sum(ilPrevML+tsc.MI(profile.Local, k), ilPrevIL+tsc.II(profile.Local, k)) + rsc.Insert(x, k)
					ig := sum(igPrevMG+tsc.MI(profile.Glocal, k), igPrevIG+tsc.II(profile.Glocal, k)) + rsc.Insert(x, k)
					up.SetIL(i, k, il)
					up.SetIG(i, k, ig)
					dlvU = sum(ml+tsc.MD(profile.Local, k), up.DL(i, k)+tsc.DD(profile.Local, k))
					dgvU = sum(mg+tsc.MD(profile.Glocal, k), up.DG(i, k)+tsc.DD(profile.Glocal, k))
				} else {
					up.SetIL(i, k, logsum.NegInf)
					up.SetIG(i, k, logsum.NegInf)
					dlvU = logsum.NegInf
				}
			} else {
				up.SetML(i, k, logsum.NegInf)
				up.SetMG(i, k, logsum.NegInf)
				up.SetIL(i, k, logsum.NegInf)
				up.SetIG(i, k, logsum.NegInf)
				dlvU, dgvU = logsum.NegInf, logsum.NegInf
			}

			if inDown {
				isAnchorCell := k == dk && i == anchors.At(dd).I
				prevDD, prevOK := anchors.downDomain(i - 1)
				samePrevDomain := prevOK && prevDD == dd

				var ml, mg float32
				switch {
				case isAnchorCell:
					// The anchor cell itself: the only legal predecessor
					// is the UP matrix's last row, one column to the left
					// (the anchor is the single hand-off point
					// between a domain's UP and DOWN sectors).
					ml = sum(
						up.ML(i-1, k-1)+tsc.MM(profile.Local, k-1),
						up.IL(i-1, k-1)+tsc.IM(profile.Local, k-1),
						up.DL(i-1, k-1)+tsc.DM(profile.Local, k-1),
						up.L(i-1)+p.BSC(k),
					) + rsc.Match(x, k)
					mg = sum(
						up.MG(i-1, k-1)+tsc.MM(profile.Glocal, k-1),
						up.IG(i-1, k-1)+tsc.IM(profile.Glocal, k-1),
						up.DG(i-1, k-1)+tsc.DM(profile.Glocal, k-1),
						up.G(i-1)+tsc.GM(k-1),
					) + rsc.Match(x, k)
				case samePrevDomain:
					ml = sum(
						down.ML(i-1, k-1)+tsc.MM(profile.Local, k-1),
						down.IL(i-1, k-1)+tsc.IM(profile.Local, k-1),
						down.DL(i-1, k-1)+tsc.DM(profile.Local, k-1),
					) + rsc.Match(x, k)
					mg = sum(
						down.MG(i-1, k-1)+tsc.MM(profile.Glocal, k-1),
						down.IG(i-1, k-1)+tsc.IM(profile.Glocal, k-1),
						down.DG(i-1, k-1)+tsc.DM(profile.Glocal, k-1),
					) + rsc.Match(x, k)
				default:
					// Row i is the first row of a new domain's DOWN
					// sector at a column the anchor hand-off does not
					// cover: row i-1 belongs to the previous domain, so
					// there is no legal vertical predecessor here.
					ml, mg = logsum.NegInf, logsum.NegInf
				}
				down.SetML(i, k, ml)
				down.SetMG(i, k, mg)
				if k < m {
					ilPrevML, ilPrevIL, igPrevMG, igPrevIG := logsum.NegInf, logsum.NegInf, logsum.NegInf, logsum.NegInf
					if samePrevDomain {
						ilPrevML, ilPrevIL = down.ML(i-1, k), down.IL(i-1, k)
						igPrevMG, igPrevIG = down.MG(i-1, k), down.IG(i-1, k)
					}
					il := sum(ilPrevML+tsc.MI(profile.Local, k), ilPrevIL+tsc.II(profile.Local, k)) + rsc.Insert(x, k)
					ig := sum(igPrevMG+tsc.MI(profile.Glocal, k), igPrevIG+tsc.II(profile.Glocal, k)) + rsc.Insert(x, k)
					down.SetIL(i, k, il)
					down.SetIG(i, k, ig)
					dlvD = sum(ml+tsc.MD(profile.Local, k), down.DL(i, k)+tsc.DD(profile.Local, k))
					dgvD = sum(mg+tsc.MD(profile.Glocal, k), down.DG(i, k)+tsc.DD(profile.Glocal, k))
				} else {
					down.SetIL(i, k, logsum.NegInf)
					down.SetIG(i, k, logsum.NegInf)
					dlvD = logsum.NegInf
				}
			} else {
				down.SetML(i, k, logsum.NegInf)
				down.SetMG(i, k, logsum.NegInf)
				down.SetIL(i, k, logsum.NegInf)
				down.SetIG(i, k, logsum.NegInf)
				dlvD, dgvD = logsum.NegInf, logsum.NegInf
			}
		}

		e := logsum.NegInf
		for k := 1; k <= m; k++ {
			e = sum(e, down.ML(i, k)+p.ESC(k))
		}
		e = sum(e, down.MG(i, m), down.DG(i, m))

		for _, mx := range [2]*refdp.Matrix{up, down} {
			mx.SetE(i, e)
			mx.SetJ(i, sum(mx.J(i-1)+xsc.J.Loop, e+xsc.E.Loop))
			mx.SetN(i, mx.N(i-1)+xsc.N.Loop)
			mx.SetB(i, sum(mx.N(i)+xsc.N.Move, mx.J(i)+xsc.J.Move))
			mx.SetL(i, mx.B(i)+xsc.B.ToLocal)
			mx.SetG(i, mx.B(i)+xsc.B.ToGlocal)
			mx.SetC(i, sum(mx.C(i-1)+xsc.C.Loop, e+xsc.E.Move))
		}
	}

	return down.C(l) + xsc.C.Move, nil
}
