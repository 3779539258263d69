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
	stdmath "math"

	"fmt"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/internal/rng"
	"github.com/nilsvik/phmmcore/logsum"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/trace"
)

// optimalTol is the near-equality tolerance traceback uses when
// comparing a stored cell value against a candidate source plus
// transition plus emission. Exact equality is fragile when additions
// are re-associated, so an absolute tolerance is required.
const optimalTol = 1e-5

// recipe abstracts the two traceback flavors that share this file's
// walk: Viterbi/Forward traceback reads transition scores as-is and
// emission from rsc; MEG traceback reads transitions through deltaTrans
// and emission from a posterior matrix's DELTA reward.
type recipe struct {
	trans      func(float32) float32
	matchEmit  func(lane profile.Lane, row, k int) float32
	insertEmit func(lane profile.Lane, row, k int) float32
	// loopEmit is the reward a residue-absorbing N/J/C loop step adds
	// beyond its transition: 0 for Viterbi/Forward, the posterior
	// reward for MEG (whose recursion credits flank loops too).
	loopEmit func(state trace.State, row int) float32
}

func viterbiRecipe(p *profile.Profile, seq dnaseq.Sequence) recipe {
	rsc := p.RSC()
	return recipe{
		trans: func(v float32) float32 { return v },
		matchEmit: func(_ profile.Lane, row, k int) float32 {
			return rsc.Match(int(seq.Residue(row)), k)
		},
		insertEmit: func(_ profile.Lane, row, k int) float32 {
			return rsc.Insert(int(seq.Residue(row)), k)
		},
		loopEmit: func(trace.State, int) float32 { return 0 },
	}
}

func megRecipe(pp *Matrix, gamma float32) recipe {
	thr := 1 / (1 + gamma)
	return recipe{
		trans: deltaTrans,
		matchEmit: func(lane profile.Lane, row, k int) float32 {
			if lane == profile.Local {
				return pp.ML(row, k) - thr
			}
			return pp.MG(row, k) - thr
		},
		insertEmit: func(lane profile.Lane, row, k int) float32 {
			if lane == profile.Local {
				return pp.IL(row, k) - thr
			}
			return pp.IG(row, k) - thr
		},
		loopEmit: func(state trace.State, row int) float32 {
			switch state {
			case trace.N:
				return pp.N(row) - thr
			case trace.J:
				return pp.JJ(row) - thr
			case trace.C:
				return pp.CC(row) - thr
			default:
				return 0
			}
		},
	}
}

// stepCand is one candidate predecessor of a traceback target cell:
// which state/row/k it is, the (already transformed) transition score
// of the edge into the target, and whether that edge consumes the
// target's row as a residue.
type stepCand struct {
	prev    trace.State
	prevRow int
	prevK   int
	edge    float32
	residue bool
}

func cellValue(mx *Matrix, state trace.State, row, k int) float32 {
	switch state {
	case trace.ML:
		return mx.ML(row, k)
	case trace.MG:
		return mx.MG(row, k)
	case trace.IL:
		return mx.IL(row, k)
	case trace.IG:
		return mx.IG(row, k)
	case trace.DL:
		return mx.DL(row, k)
	case trace.DG:
		return mx.DG(row, k)
	case trace.E:
		return mx.E(row)
	case trace.N:
		return mx.N(row)
	case trace.J:
		return mx.J(row)
	case trace.B:
		return mx.B(row)
	case trace.L:
		return mx.L(row)
	case trace.G:
		return mx.G(row)
	case trace.C:
		return mx.C(row)
	default:
		return logsum.NegInf
	}
}

// candidatesFor enumerates the source cells the forward-style
// recursion (core.go's forwardLikeRecursion and meg.go's RunMEG,
// which share this exact graph) could have reached (state, row, k)
// from, and the target cell's own emission contribution (0 for
// non-emitting states).
func candidatesFor(state trace.State, row, k, m int, p *profile.Profile, rec recipe) ([]stepCand, float32) {
	tsc := p.TSC()
	xsc := p.XSC()

	switch state {
	case trace.ML:
		return []stepCand{
			{trace.ML, row - 1, k - 1, rec.trans(tsc.MM(profile.Local, k-1)), true},
			{trace.IL, row - 1, k - 1, rec.trans(tsc.IM(profile.Local, k-1)), true},
			{trace.DL, row - 1, k - 1, rec.trans(tsc.DM(profile.Local, k-1)), true},
			{trace.L, row - 1, 0, rec.trans(p.BSC(k)), true},
		}, rec.matchEmit(profile.Local, row, k)
	case trace.MG:
		return []stepCand{
			{trace.MG, row - 1, k - 1, rec.trans(tsc.MM(profile.Glocal, k-1)), true},
			{trace.IG, row - 1, k - 1, rec.trans(tsc.IM(profile.Glocal, k-1)), true},
			{trace.DG, row - 1, k - 1, rec.trans(tsc.DM(profile.Glocal, k-1)), true},
			{trace.G, row - 1, 0, rec.trans(tsc.GM(k - 1)), true},
		}, rec.matchEmit(profile.Glocal, row, k)
	case trace.IL:
		return []stepCand{
			{trace.ML, row - 1, k, rec.trans(tsc.MI(profile.Local, k)), true},
			{trace.IL, row - 1, k, rec.trans(tsc.II(profile.Local, k)), true},
		}, rec.insertEmit(profile.Local, row, k)
	case trace.IG:
		return []stepCand{
			{trace.MG, row - 1, k, rec.trans(tsc.MI(profile.Glocal, k)), true},
			{trace.IG, row - 1, k, rec.trans(tsc.II(profile.Glocal, k)), true},
		}, rec.insertEmit(profile.Glocal, row, k)
	case trace.DL:
		return []stepCand{
			{trace.ML, row, k - 1, rec.trans(tsc.MD(profile.Local, k-1)), false},
			{trace.DL, row, k - 1, rec.trans(tsc.DD(profile.Local, k-1)), false},
		}, 0
	case trace.DG:
		return []stepCand{
			{trace.MG, row, k - 1, rec.trans(tsc.MD(profile.Glocal, k-1)), false},
			{trace.DG, row, k - 1, rec.trans(tsc.DD(profile.Glocal, k-1)), false},
		}, 0
	case trace.E:
		cands := make([]stepCand, 0, m+2)
		for kk := 1; kk <= m; kk++ {
			cands = append(cands, stepCand{trace.ML, row, kk, rec.trans(p.ESC(kk)), false})
		}
		cands = append(cands,
			stepCand{trace.MG, row, m, rec.trans(0), false},
			stepCand{trace.DG, row, m, rec.trans(0), false},
		)
		return cands, 0
	case trace.J:
		return []stepCand{
			{trace.J, row - 1, 0, rec.trans(xsc.J.Loop) + rec.loopEmit(trace.J, row), true},
			{trace.E, row, 0, rec.trans(xsc.E.Loop), false},
		}, 0
	case trace.N:
		if row == 0 {
			return nil, 0
		}
		return []stepCand{
			{trace.N, row - 1, 0, rec.trans(xsc.N.Loop) + rec.loopEmit(trace.N, row), true},
		}, 0
	case trace.B:
		return []stepCand{
			{trace.N, row, 0, rec.trans(xsc.N.Move), false},
			{trace.J, row, 0, rec.trans(xsc.J.Move), false},
		}, 0
	case trace.L:
		return []stepCand{
			{trace.B, row, 0, rec.trans(xsc.B.ToLocal), false},
		}, 0
	case trace.G:
		return []stepCand{
			{trace.B, row, 0, rec.trans(xsc.B.ToGlocal), false},
		}, 0
	case trace.C:
		return []stepCand{
			{trace.C, row - 1, 0, rec.trans(xsc.C.Loop) + rec.loopEmit(trace.C, row), true},
			{trace.E, row, 0, rec.trans(xsc.E.Move), false},
		}, 0
	default:
		return nil, 0
	}
}

func pickOptimal(mx *Matrix, cands []stepCand, emission, target float32) (int, error) {
	best := -1
	var bestDiff float32 = stdmath.MaxFloat32
	for i, c := range cands {
		total := cellValue(mx, c.prev, c.prevRow, c.prevK) + c.edge + emission
		diff := total - target
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	if best == -1 || bestDiff > optimalTol {
		return -1, fmt.Errorf("%w: no source cell near-equals the stored value (best diff %.3g)", dpstatus.ErrTraceback, bestDiff)
	}
	return best, nil
}

func pickStochastic(src rng.Source) func(*Matrix, []stepCand, float32, float32) (int, error) {
	return func(mx *Matrix, cands []stepCand, emission, target float32) (int, error) {
		weights := make([]float64, len(cands))
		var sum float64
		for i, c := range cands {
			total := cellValue(mx, c.prev, c.prevRow, c.prevK) + c.edge + emission
			w := stdmath.Exp(float64(total - target))
			weights[i] = w
			sum += w
		}
		if sum <= 0 || stdmath.IsNaN(sum) {
			return -1, fmt.Errorf("%w: no source cell carries probability mass into the stored value", dpstatus.ErrTraceback)
		}
		u := src.Float64() * sum
		var acc float64
		for i, w := range weights {
			acc += w
			if u <= acc {
				return i, nil
			}
		}
		return len(cands) - 1, nil
	}
}

// walk performs the shared backward traversal, calling
// pick at each cell to choose among candidatesFor's predecessors.
func walk(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, rec recipe, pick func(*Matrix, []stepCand, float32, float32) (int, error)) (trace.Trace, error) {
	m, l := p.M(), seq.L()

	var tr trace.Trace
	tr.Append(trace.Step{State: trace.T})
	tr.Append(trace.Step{State: trace.C})
	state, row, k := trace.C, l, 0

	for {
		target := cellValue(mx, state, row, k)
		cands, emission := candidatesFor(state, row, k, m, p, rec)
		if len(cands) == 0 {
			if state == trace.N && row == 0 {
				tr.Append(trace.Step{State: trace.S})
				break
			}
			return nil, fmt.Errorf("%w: no predecessor defined for %v at row %d", dpstatus.ErrTraceback, state, row)
		}

		idx, err := pick(mx, cands, emission, target)
		if err != nil {
			return nil, err
		}
		chosen := cands[idx]
		if chosen.residue {
			tr[len(tr)-1].I = row
		}

		state, row, k = chosen.prev, chosen.prevRow, chosen.prevK
		tr.Append(trace.Step{State: state, K: k})
	}

	tr.Reverse()
	if err := tr.Validate(l); err != nil {
		return nil, err
	}
	return tr, nil
}

// OptimalTraceback walks a filled Viterbi matrix back from (L, C) to S,
// appending each visited state, and returns the completed trace.
// It fails with dpstatus.ErrTraceback if any cell's stored value
// has no near-equal source.
func OptimalTraceback(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence) (trace.Trace, error) {
	if mx.Kind() != Viterbi {
		return nil, fmt.Errorf("%w: OptimalTraceback requires a Viterbi matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	return walk(mx, p, seq, viterbiRecipe(p, seq), pickOptimal)
}

// OptimalMEGTraceback walks a filled MEG (Alignment-kind) matrix back
// from (L, C) to S using the same DELTA semantics RunMEG filled it
// with.
func OptimalMEGTraceback(mx, pp *Matrix, p *profile.Profile, seq dnaseq.Sequence, gamma float32) (trace.Trace, error) {
	if mx.Kind() != Alignment {
		return nil, fmt.Errorf("%w: OptimalMEGTraceback requires an Alignment matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	return walk(mx, p, seq, megRecipe(pp, gamma), pickOptimal)
}

// StochasticTraceback samples a trace from a filled Forward matrix,
// choosing among each cell's candidate sources with probability
// proportional to the path mass each one contributes: the candidate
// source log-probs are normalised into a probability vector and a
// choice is sampled from it.
func StochasticTraceback(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, src rng.Source) (trace.Trace, error) {
	if mx.Kind() != Fwd {
		return nil, fmt.Errorf("%w: StochasticTraceback requires a Fwd matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	return walk(mx, p, seq, viterbiRecipe(p, seq), pickStochastic(src))
}
