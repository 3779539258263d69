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

// RunMEG fills mx (kind Alignment) with the gamma-centroid (Maximum
// Expected Gain) alignment DP over a posterior matrix pp, and returns
// its score. gamma must be > 0.
//
// MEG reuses the Viterbi recursion's shape with two substitutions: a
// transition contributes 0 if the profile permits it, -Inf if the
// profile's own score marks it forbidden (deltaTrans below, the DELTA
// semantics); and an emitting cell's reward is pp[i,s] - 1/(1+gamma)
// instead of a log-odds emission score.
func RunMEG(mx *Matrix, pp *Matrix, p *profile.Profile, seq dnaseq.Sequence, gamma float32) (float32, error) {
	if mx.Kind() != Alignment {
		return 0, fmt.Errorf("%w: RunMEG requires an Alignment matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	if pp.Kind() != Decoding {
		return 0, fmt.Errorf("%w: RunMEG requires a Decoding posterior matrix, got %v", dpstatus.ErrInvalidArgument, pp.Kind())
	}
	if gamma <= 0 {
		return 0, fmt.Errorf("%w: RunMEG requires gamma > 0, got %v", dpstatus.ErrInvalidArgument, gamma)
	}

	m, l := p.M(), seq.L()
	mx.Grow(m, l)
	thr := 1 / (1 + gamma)
	tsc := p.TSC()
	xsc := p.XSC()

	mx.Reset()
	mx.SetN(0, 0)
	mx.SetB(0, deltaTrans(xsc.N.Move))
	mx.SetL(0, mx.B(0)+deltaTrans(0))
	mx.SetG(0, mx.B(0)+deltaTrans(0))
	mx.SetE(0, logsum.NegInf)
	mx.SetJ(0, logsum.NegInf)
	mx.SetC(0, logsum.NegInf)

	for i := 1; i <= l; i++ {
		dlv, dgv := logsum.NegInf, logsum.NegInf

		for k := 1; k <= m; k++ {
			mx.SetDL(i, k, dlv)
			mx.SetDG(i, k, dgv)

			ml := maxCombine(
				mx.ML(i-1, k-1)+deltaTrans(tsc.MM(profile.Local, k-1)),
				mx.IL(i-1, k-1)+deltaTrans(tsc.IM(profile.Local, k-1)),
				mx.DL(i-1, k-1)+deltaTrans(tsc.DM(profile.Local, k-1)),
				mx.L(i-1)+deltaTrans(p.BSC(k)),
			) + pp.ML(i, k) - thr
			mg := maxCombine(
				mx.MG(i-1, k-1)+deltaTrans(tsc.MM(profile.Glocal, k-1)),
				mx.IG(i-1, k-1)+deltaTrans(tsc.IM(profile.Glocal, k-1)),
				mx.DG(i-1, k-1)+deltaTrans(tsc.DM(profile.Glocal, k-1)),
				mx.G(i-1)+deltaTrans(tsc.GM(k-1)),
			) + pp.MG(i, k) - thr
			mx.SetML(i, k, ml)
			mx.SetMG(i, k, mg)

			if k < m {
				il := maxCombine(
					mx.ML(i-1, k)+deltaTrans(tsc.MI(profile.Local, k)),
					mx.IL(i-1, k)+deltaTrans(tsc.II(profile.Local, k)),
				) + pp.IL(i, k) - thr
				ig := maxCombine(
					mx.MG(i-1, k)+deltaTrans(tsc.MI(profile.Glocal, k)),
					mx.IG(i-1, k)+deltaTrans(tsc.II(profile.Glocal, k)),
				) + pp.IG(i, k) - thr
				mx.SetIL(i, k, il)
				mx.SetIG(i, k, ig)

				dlv = maxCombine(ml+deltaTrans(tsc.MD(profile.Local, k)), mx.DL(i, k)+deltaTrans(tsc.DD(profile.Local, k)))
				dgv = maxCombine(mg+deltaTrans(tsc.MD(profile.Glocal, k)), mx.DG(i, k)+deltaTrans(tsc.DD(profile.Glocal, k)))
			} else {
				mx.SetIL(i, k, logsum.NegInf)
				mx.SetIG(i, k, logsum.NegInf)
			}
		}

		e := logsum.NegInf
		for k := 1; k <= m; k++ {
			e = maxCombine(e, mx.ML(i, k)+deltaTrans(p.ESC(k)))
		}
		e = maxCombine(e, mx.MG(i, m)+deltaTrans(0), mx.DG(i, m)+deltaTrans(0))
		mx.SetE(i, e)

		mx.SetJ(i, maxCombine(mx.J(i-1)+deltaTrans(xsc.J.Loop)+pp.JJ(i)-thr, e+deltaTrans(xsc.E.Loop)))
		mx.SetN(i, mx.N(i-1)+deltaTrans(xsc.N.Loop)+pp.N(i)-thr)
		mx.SetB(i, maxCombine(mx.N(i)+deltaTrans(xsc.N.Move), mx.J(i)+deltaTrans(xsc.J.Move)))
		mx.SetL(i, mx.B(i)+deltaTrans(0))
		mx.SetG(i, mx.B(i)+deltaTrans(0))
		mx.SetC(i, maxCombine(mx.C(i-1)+deltaTrans(xsc.C.Loop)+pp.CC(i)-thr, e+deltaTrans(xsc.E.Move)))
	}

	return mx.C(l) + deltaTrans(xsc.C.Move), nil
}

// deltaTrans implements MEG's transition DELTA: a finite
// profile score means the transition is structurally permitted and
// contributes nothing to the MEG objective; -Inf means it is forbidden
// (either by model topology or by the profile's mode restrictions,
// which the builder already encodes as -Inf scores) and stays -Inf.
func deltaTrans(score float32) float32 {
	if score == logsum.NegInf {
		return logsum.NegInf
	}
	return 0
}
