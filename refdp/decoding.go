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
	stdmath "math"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/profile"
)

// Decode combines a filled fwd (kind Fwd) and bck (kind Bck) matrix,
// built for the same profile and sequence, into pp (kind Decoding): the
// per-cell posterior probability that residue i is emitted by each
// state. totsc is the shared total score (Forward's or Backward's;
// they agree within LogSum tolerance).
//
// Unlike the log-odds matrices, pp holds plain probabilities in [0,1],
// so its cells are zeroed rather than set to -Inf before filling.
func Decode(pp, fwd, bck *Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc float32) error {
	if err := DecodeRaw(pp, fwd, bck, p, seq, totsc); err != nil {
		return err
	}
	renormalizeRows(pp, p.M(), seq.L())
	return nil
}

// DecodeRaw is Decode without the per-row renormalization pass, for
// callers that must renormalize a row across more than one matrix
// (package asc's UP/DOWN sector pair shares each row's denominator).
func DecodeRaw(pp, fwd, bck *Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc float32) error {
	if !isDecodingKind(pp.Kind()) {
		return fmt.Errorf("%w: Decode requires a Decoding matrix, got %v", dpstatus.ErrInvalidArgument, pp.Kind())
	}
	if !isFwdKind(fwd.Kind()) {
		return fmt.Errorf("%w: Decode requires a Fwd matrix, got %v", dpstatus.ErrInvalidArgument, fwd.Kind())
	}
	if !isBckKind(bck.Kind()) {
		return fmt.Errorf("%w: Decode requires a Bck matrix, got %v", dpstatus.ErrInvalidArgument, bck.Kind())
	}

	m, l := p.M(), seq.L()
	pp.Grow(m, l)
	for i := range pp.main {
		pp.main[i] = 0
	}
	for i := range pp.special {
		pp.special[i] = 0
	}

	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()

	for i := 1; i <= l; i++ {
		for k := 1; k <= m; k++ {
			pp.SetML(i, k, expOrZero(fwd.ML(i, k)+bck.ML(i, k)-totsc))
			pp.SetMG(i, k, expOrZero(fwd.MG(i, k)+bck.MG(i, k)-totsc))
			if k < m {
				pp.SetIL(i, k, expOrZero(fwd.IL(i, k)+bck.IL(i, k)-totsc))
				pp.SetIG(i, k, expOrZero(fwd.IG(i, k)+bck.IG(i, k)-totsc))
			}
			pp.SetDL(i, k, expOrZero(fwd.DL(i, k)+bck.DL(i, k)-totsc))
			pp.SetDG(i, k, expOrZero(fwd.DG(i, k)+bck.DG(i, k)-totsc))
		}
		pp.SetE(i, expOrZero(fwd.E(i)+bck.E(i)-totsc))
		// N, like JJ and CC below, is stored as the posterior that
		// residue i is absorbed by its loop, not as state occupancy.
		pp.SetN(i, expOrZero(fwd.N(i-1)+xsc.N.Loop+bck.N(i)-totsc))
		pp.SetJ(i, expOrZero(fwd.J(i)+bck.J(i)-totsc))
		pp.SetB(i, expOrZero(fwd.B(i)+bck.B(i)-totsc))
		pp.SetL(i, expOrZero(fwd.L(i)+bck.L(i)-totsc))
		pp.SetG(i, expOrZero(fwd.G(i)+bck.G(i)-totsc))
		pp.SetC(i, expOrZero(fwd.C(i)+bck.C(i)-totsc))
		pp.SetJJ(i, expOrZero(fwd.J(i-1)+xsc.J.Loop+bck.J(i)-totsc))
		pp.SetCC(i, expOrZero(fwd.C(i-1)+xsc.C.Loop+bck.C(i)-totsc))

		// Wing unfolding: the G->M_k glocal entry is stored as a single
		// wing-retracted transition, but the intermediate
		// D_1^G..D_{k-1}^G cells that transition represents are visited
		// by every path that uses it, so each one's posterior mass is
		// credited with the full wing's probability.
		x := int(seq.Residue(i))
		for k := 2; k <= m; k++ {
			mass := expOrZero(fwd.G(i-1) + tsc.GM(k-1) + rsc.Match(x, k) + bck.MG(i, k) - totsc)
			if mass == 0 {
				continue
			}
			for j := 1; j < k; j++ {
				pp.SetDG(i-1, j, pp.DG(i-1, j)+mass)
			}
		}
	}

	return nil
}

// isFwdKind, isBckKind and isDecodingKind accept both the dense Kind and
// its ASC UP/DOWN sector counterparts, so package asc's Forward/Backward
// sector matrices can be decoded with this same routine: the UP and
// DOWN decoding matrices are computed the same way as the
// unconstrained case, restricted to their sector.
func isFwdKind(k Kind) bool {
	return k == Fwd || k == ASCFwdUp || k == ASCFwdDown
}

func isBckKind(k Kind) bool {
	return k == Bck || k == ASCBckUp || k == ASCBckDown
}

func isDecodingKind(k Kind) bool {
	return k == Decoding || k == ASCDecodeUp || k == ASCDecodeDown
}

func expOrZero(v float32) float32 {
	if stdmath.IsInf(float64(v), -1) {
		return 0
	}
	return float32(stdmath.Exp(float64(v)))
}

// renormalizeRows rescales each row so the sum of pp over all emitting
// states at that residue equals 1. D states never emit and are left
// untouched.
func renormalizeRows(pp *Matrix, m, l int) {
	for i := 1; i <= l; i++ {
		sum := pp.N(i) + pp.JJ(i) + pp.CC(i)
		for k := 1; k <= m; k++ {
			sum += pp.ML(i, k) + pp.MG(i, k) + pp.IL(i, k) + pp.IG(i, k)
		}
		if sum <= 0 {
			continue
		}
		inv := 1 / sum
		for k := 1; k <= m; k++ {
			pp.SetML(i, k, pp.ML(i, k)*inv)
			pp.SetMG(i, k, pp.MG(i, k)*inv)
			pp.SetIL(i, k, pp.IL(i, k)*inv)
			pp.SetIG(i, k, pp.IG(i, k)*inv)
		}
		pp.SetN(i, pp.N(i)*inv)
		pp.SetJJ(i, pp.JJ(i)*inv)
		pp.SetCC(i, pp.CC(i)*inv)
	}
}
