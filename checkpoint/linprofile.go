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
	stdmath "math"

	"github.com/nilsvik/phmmcore/profile"
)

// linProfile holds a profile's scores exponentiated out of log space,
// one slice per transition kind, so the linear-probability recursions
// in this package run on multiply-adds with no per-cell Exp or logsum
// calls. A log-odds of -Inf (forbidden) becomes exactly 0, the linear
// additive identity, so forbidden paths drop out of every sum without
// branching.
//
// Built once per Forward/Backward call: the cost is O(M*K), negligible
// next to the O(M*L) fill it feeds.
type linProfile struct {
	m, k int

	// Indexed [lane][source node], node 0 unused (held at 0).
	mm, mi, md, im, ii, dm, dd [2][]float32

	gm  []float32 // wing-retracted G->M_k entry, stored at index k-1
	bsc []float32 // local B->M_k entry, indexed by k
	esc []float32 // local M_k->E exit, indexed by k

	match, insert []float32 // flattened [x][k]: x*(m+1)+k

	nLoop, nMove float32
	eLoop, eMove float32
	cLoop, cMove float32
	jLoop, jMove float32
	bToL, bToG   float32
}

func expf(v float32) float32 {
	return float32(stdmath.Exp(float64(v)))
}

func newLinProfile(p *profile.Profile) *linProfile {
	m, k := p.M(), p.K()
	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()

	lp := &linProfile{
		m: m, k: k,
		gm:     make([]float32, m),
		bsc:    make([]float32, m+1),
		esc:    make([]float32, m+1),
		match:  make([]float32, k*(m+1)),
		insert: make([]float32, k*(m+1)),
	}
	for lane := profile.Local; lane <= profile.Glocal; lane++ {
		lp.mm[lane] = make([]float32, m+1)
		lp.mi[lane] = make([]float32, m+1)
		lp.md[lane] = make([]float32, m+1)
		lp.im[lane] = make([]float32, m+1)
		lp.ii[lane] = make([]float32, m+1)
		lp.dm[lane] = make([]float32, m+1)
		lp.dd[lane] = make([]float32, m+1)
		for node := 1; node <= m; node++ {
			lp.mm[lane][node] = expf(tsc.MM(lane, node))
			lp.mi[lane][node] = expf(tsc.MI(lane, node))
			lp.md[lane][node] = expf(tsc.MD(lane, node))
			lp.im[lane][node] = expf(tsc.IM(lane, node))
			lp.ii[lane][node] = expf(tsc.II(lane, node))
			lp.dm[lane][node] = expf(tsc.DM(lane, node))
			lp.dd[lane][node] = expf(tsc.DD(lane, node))
		}
	}
	for node := 1; node <= m; node++ {
		lp.gm[node-1] = expf(tsc.GM(node - 1))
		lp.bsc[node] = expf(p.BSC(node))
		lp.esc[node] = expf(p.ESC(node))
		for x := 0; x < k; x++ {
			lp.match[x*(m+1)+node] = expf(rsc.Match(x, node))
			if node < m {
				lp.insert[x*(m+1)+node] = expf(rsc.Insert(x, node))
			}
		}
	}

	lp.nLoop, lp.nMove = expf(xsc.N.Loop), expf(xsc.N.Move)
	lp.eLoop, lp.eMove = expf(xsc.E.Loop), expf(xsc.E.Move)
	lp.cLoop, lp.cMove = expf(xsc.C.Loop), expf(xsc.C.Move)
	lp.jLoop, lp.jMove = expf(xsc.J.Loop), expf(xsc.J.Move)
	lp.bToL, lp.bToG = expf(xsc.B.ToLocal), expf(xsc.B.ToGlocal)
	return lp
}

func (lp *linProfile) matchOdds(x, k int) float32  { return lp.match[x*(lp.m+1)+k] }
func (lp *linProfile) insertOdds(x, k int) float32 { return lp.insert[x*(lp.m+1)+k] }
