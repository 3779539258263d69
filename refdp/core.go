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
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
)

// cellGate reports whether cell (i,k) participates in a recursion. A nil
// gate (the dense case) always allows every cell; package sparse passes
// a mask-backed gate so the exact same recursion body restricts itself
// to the masked cells without a second, independently-maintained copy
// of the math.
type cellGate func(i, k int) bool

func (g cellGate) allows(i, k int) bool {
	return g == nil || g(i, k)
}

// forwardLikeRecursion fills mx, row by row, ascending i and ascending k,
// with combine selecting Viterbi's max or Forward's logsum: identical
// shape either way, with every max replaced by logsum for Forward. It
// returns the final score, C(L)+xsc[C][MOVE].
//
// D cells are computed with a one-cell deferred-storage trick: dlv/dgv
// carry the D value computed from the previous k into the current k's
// cell, so that the M(i,k-1)/D(i,k-1) reads that produce it stay
// adjacent to the M(i,k-1) write from the previous iteration. k=M is
// handled inline: I_M does not exist, and the running E accumulator
// picks up the glocal M_M/D_M exits (probability 1) in addition to
// every k's local exit.
//
// gate, when non-nil, restricts which (i,k) cells are actually computed:
// gated-out cells are left at -Inf (the log-space additive identity),
// which is exactly the contribution an unreachable cell would make to
// every downstream combine call. This is what lets package sparse
// restrict Forward/Viterbi to a posterior-threshold mask without
// re-deriving the recursion.
func forwardLikeRecursion(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, combine combiner, gate cellGate) float32 {
	m, l := p.M(), seq.L()
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()

	mx.Reset()
	mx.SetN(0, 0)
	mx.SetB(0, xsc.N.Move)
	mx.SetL(0, mx.B(0)+xsc.B.ToLocal)
	mx.SetG(0, mx.B(0)+xsc.B.ToGlocal)
	mx.SetE(0, logsum.NegInf)
	mx.SetJ(0, logsum.NegInf)
	mx.SetC(0, logsum.NegInf)

	for i := 1; i <= l; i++ {
		x := int(seq.Residue(i))
		dlv, dgv := logsum.NegInf, logsum.NegInf

		for k := 1; k <= m; k++ {
			mx.SetDL(i, k, dlv)
			mx.SetDG(i, k, dgv)

			if !gate.allows(i, k) {
				mx.SetML(i, k, logsum.NegInf)
				mx.SetMG(i, k, logsum.NegInf)
				mx.SetIL(i, k, logsum.NegInf)
				mx.SetIG(i, k, logsum.NegInf)
				dlv, dgv = logsum.NegInf, logsum.NegInf
				continue
			}

			ml := combine(
				mx.ML(i-1, k-1)+tsc.MM(profile.Local, k-1),
				mx.IL(i-1, k-1)+tsc.IM(profile.Local, k-1),
				mx.DL(i-1, k-1)+tsc.DM(profile.Local, k-1),
				mx.L(i-1)+p.BSC(k),
			) + rsc.Match(x, k)
			mg := combine(
				mx.MG(i-1, k-1)+tsc.MM(profile.Glocal, k-1),
				mx.IG(i-1, k-1)+tsc.IM(profile.Glocal, k-1),
				mx.DG(i-1, k-1)+tsc.DM(profile.Glocal, k-1),
				mx.G(i-1)+tsc.GM(k-1),
			) + rsc.Match(x, k)
			mx.SetML(i, k, ml)
			mx.SetMG(i, k, mg)

			if k < m {
				il := combine(
					mx.ML(i-1, k)+tsc.MI(profile.Local, k),
					mx.IL(i-1, k)+tsc.II(profile.Local, k),
				) + rsc.Insert(x, k)
				ig := combine(
					mx.MG(i-1, k)+tsc.MI(profile.Glocal, k),
					mx.IG(i-1, k)+tsc.II(profile.Glocal, k),
				) + rsc.Insert(x, k)
				mx.SetIL(i, k, il)
				mx.SetIG(i, k, ig)

				dlv = combine(ml+tsc.MD(profile.Local, k), mx.DL(i, k)+tsc.DD(profile.Local, k))
				dgv = combine(mg+tsc.MD(profile.Glocal, k), mx.DG(i, k)+tsc.DD(profile.Glocal, k))
			} else {
				mx.SetIL(i, k, logsum.NegInf)
				mx.SetIG(i, k, logsum.NegInf)
			}
		}

		e := logsum.NegInf
		for k := 1; k <= m; k++ {
			e = combine(e, mx.ML(i, k)+p.ESC(k))
		}
		e = combine(e, mx.MG(i, m), mx.DG(i, m))
		mx.SetE(i, e)

		mx.SetJ(i, combine(mx.J(i-1)+xsc.J.Loop, e+xsc.E.Loop))
		mx.SetN(i, mx.N(i-1)+xsc.N.Loop)
		mx.SetB(i, combine(mx.N(i)+xsc.N.Move, mx.J(i)+xsc.J.Move))
		mx.SetL(i, mx.B(i)+xsc.B.ToLocal)
		mx.SetG(i, mx.B(i)+xsc.B.ToGlocal)
		mx.SetC(i, combine(mx.C(i-1)+xsc.C.Loop, e+xsc.E.Move))
	}

	return mx.C(l) + xsc.C.Move
}
