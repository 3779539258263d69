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
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
)

// CheckDuality computes logsum(Forward_local(gm,x), Forward_glocal(gm,x))
// - log(2) for a unihit dual-mode profile, reusing one scratch Fwd
// matrix for both passes. p must allow both lanes (Profile.Mode() ==
// profile.Dual); a local-only or glocal-only profile has no second
// lane to compare against.
func CheckDuality(p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if p.Mode() != profile.Dual {
		return 0, fmt.Errorf("%w: CheckDuality requires a dual-mode profile, got mode %v", dpstatus.ErrInvalidArgument, p.Mode())
	}

	local, err := forceLane(p, profile.Local)
	if err != nil {
		return 0, err
	}
	glocal, err := forceLane(p, profile.Glocal)
	if err != nil {
		return 0, err
	}

	mx := New(Fwd, p.M(), seq.L())
	fl, err := RunForward(mx, local, seq)
	if err != nil {
		return 0, err
	}
	fg, err := RunForward(mx, glocal, seq)
	if err != nil {
		return 0, err
	}

	return logsum.Exact(fl, fg) - float32(stdmath.Log(2)), nil
}

// forceLane returns a profile identical to p except with its B entry
// split (xsc.B.ToLocal/ToGlocal) pinned so only the requested lane can
// be entered: Forward_local(gm,x) and Forward_glocal(gm,x) are defined
// as running the dual-mode profile with its other lane's entry closed
// off entirely.
func forceLane(p *profile.Profile, lane profile.Lane) (*profile.Profile, error) {
	m, k := p.M(), p.K()
	b := profile.NewBuilder(m, k)
	rsc := p.RSC()
	tsc := p.TSC()

	for node := 1; node <= m; node++ {
		for x := 0; x < k; x++ {
			b.SetMatchEmission(x, node, rsc.Match(x, node))
			if node < m {
				b.SetInsertEmission(x, node, rsc.Insert(x, node))
			}
		}
		b.SetBSC(node, p.BSC(node))
		b.SetESC(node, p.ESC(node))
		b.SetGM(node, tsc.GM(node-1))
		for _, l := range []profile.Lane{profile.Local, profile.Glocal} {
			b.SetTrans("MM", l, node, tsc.MM(l, node))
			b.SetTrans("MI", l, node, tsc.MI(l, node))
			b.SetTrans("MD", l, node, tsc.MD(l, node))
			b.SetTrans("IM", l, node, tsc.IM(l, node))
			b.SetTrans("II", l, node, tsc.II(l, node))
			b.SetTrans("DM", l, node, tsc.DM(l, node))
			b.SetTrans("DD", l, node, tsc.DD(l, node))
		}
	}

	xsc := p.XSC()
	if lane == profile.Local {
		xsc.B.ToLocal = 0
		xsc.B.ToGlocal = logsum.NegInf
	} else {
		xsc.B.ToLocal = logsum.NegInf
		xsc.B.ToGlocal = 0
	}
	b.SetXSC(xsc)

	mode := profile.LocalOnly
	if lane == profile.Glocal {
		mode = profile.GlocalOnly
	}
	b.SetMode(mode)
	b.SetMultiplicity(p.Multiplicity())
	b.SetLengthModel(p.LengthModel())
	b.SetName(p.Name())

	return b.Build()
}
