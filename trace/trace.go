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

// Package trace holds the ordered state path a traceback produces:
// append, reverse, replay-score, and structural validation.
package trace

import (
	"fmt"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/profile"
)

// State names every node a traceback can visit.
type State int

const (
	S State = iota
	N
	B
	L
	G
	ML
	MG
	IL
	IG
	DL
	DG
	E
	J
	C
	T
)

func (s State) String() string {
	switch s {
	case S:
		return "S"
	case N:
		return "N"
	case B:
		return "B"
	case L:
		return "L"
	case G:
		return "G"
	case ML:
		return "M_L"
	case MG:
		return "M_G"
	case IL:
		return "I_L"
	case IG:
		return "I_G"
	case DL:
		return "D_L"
	case DG:
		return "D_G"
	case E:
		return "E"
	case J:
		return "J"
	case C:
		return "C"
	case T:
		return "T"
	default:
		return "unknown"
	}
}

// Emits reports whether a step in this state consumes a residue: the
// match and insert states, plus the residue-absorbing N/C/J loops.
func (s State) Emits() bool {
	switch s {
	case ML, MG, IL, IG, N, J, C:
		return true
	default:
		return false
	}
}

// HasK reports whether a step in this state carries a node index;
// only match, insert and delete steps do.
func (s State) HasK() bool {
	switch s {
	case ML, MG, IL, IG, DL, DG:
		return true
	default:
		return false
	}
}

// Step is a single trace record: the state visited, its node index (0
// if State.HasK is false), and its sequence position (0 if State.Emits
// is false, or if emitted at an N/J/C step before any residue; for
// emitting steps I is the 1-based residue position consumed).
type Step struct {
	State State
	K     int
	I     int
}

// Trace is an ordered path through the state machine, S first and T
// last once Validate succeeds.
type Trace []Step

// Append adds step to the end of the trace. Tracebacks build a Trace
// walking backward from (L, C) and call Append at each step, then
// Reverse once S is reached.
func (tr *Trace) Append(step Step) {
	*tr = append(*tr, step)
}

// Reverse reverses the trace in place.
func (tr Trace) Reverse() {
	for i, j := 0, len(tr)-1; i < j; i, j = i+1, j-1 {
		tr[i], tr[j] = tr[j], tr[i]
	}
}

// Validate checks a Trace's structural invariants:
// it begins S->N and ends C->T, M/D node indices are non-decreasing
// within a domain (strictly increasing across consecutive M/D/M steps
// advancing k), and every residue 1..L is emitted exactly once.
func (tr Trace) Validate(l int) error {
	if len(tr) < 2 || tr[0].State != S || tr[len(tr)-1].State != T {
		return fmt.Errorf("%w: trace must begin S and end T", dpstatus.ErrTraceback)
	}

	seen := make([]bool, l+1)
	lastK := 0
	inDomain := false
	for _, step := range tr {
		if step.State.HasK() {
			if !inDomain {
				lastK = 0
				inDomain = true
			}
			if step.K < lastK {
				return fmt.Errorf("%w: node index %d out of order after %d", dpstatus.ErrTraceback, step.K, lastK)
			}
			lastK = step.K
		} else if step.State == B || step.State == E {
			inDomain = false
		}
		if step.State.Emits() && step.I > 0 {
			if step.I > l || seen[step.I] {
				return fmt.Errorf("%w: residue %d emitted out of range or twice", dpstatus.ErrTraceback, step.I)
			}
			seen[step.I] = true
		}
	}
	for i := 1; i <= l; i++ {
		if !seen[i] {
			return fmt.Errorf("%w: residue %d never emitted", dpstatus.ErrTraceback, i)
		}
	}
	return nil
}

// ScoreByReplay walks consecutive step pairs and sums the same
// transition/emission lookups the DP recursion used to produce this
// trace, so a replayed score can be checked against the DP's score.
func ScoreByReplay(tr Trace, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if len(tr) < 2 {
		return 0, fmt.Errorf("%w: trace too short to replay", dpstatus.ErrTraceback)
	}

	tsc := p.TSC()
	rsc := p.RSC()
	xsc := p.XSC()

	var score float32
	for i := 1; i < len(tr); i++ {
		prev, cur := tr[i-1], tr[i]
		t, err := transitionScore(prev, cur, p, tsc, xsc)
		if err != nil {
			return 0, err
		}
		score += t

		if cur.State.Emits() && cur.I > 0 {
			x := int(seq.Residue(cur.I))
			switch cur.State {
			case ML:
				score += rsc.Match(x, cur.K)
			case MG:
				score += rsc.Match(x, cur.K)
			case IL:
				score += rsc.Insert(x, cur.K)
			case IG:
				score += rsc.Insert(x, cur.K)
			}
		}
	}
	return score, nil
}

func transitionScore(prev, cur Step, p *profile.Profile, tsc *profile.TSC, xsc profile.XSC) (float32, error) {
	switch {
	case prev.State == S && cur.State == N:
		return 0, nil
	case prev.State == N && cur.State == N:
		return xsc.N.Loop, nil
	case prev.State == N && cur.State == B:
		return xsc.N.Move, nil
	case prev.State == J && cur.State == J:
		return xsc.J.Loop, nil
	case prev.State == J && cur.State == B:
		return xsc.J.Move, nil
	case prev.State == E && cur.State == J:
		return xsc.E.Loop, nil
	case prev.State == E && cur.State == C:
		return xsc.E.Move, nil
	case prev.State == C && cur.State == C:
		return xsc.C.Loop, nil
	case prev.State == C && cur.State == T:
		return xsc.C.Move, nil
	case prev.State == B && cur.State == L:
		return xsc.B.ToLocal, nil
	case prev.State == B && cur.State == G:
		return xsc.B.ToGlocal, nil
	case prev.State == L && cur.State == ML:
		return p.BSC(cur.K), nil
	case prev.State == G && cur.State == MG:
		return tsc.GM(cur.K - 1), nil
	case prev.State == ML && cur.State == E:
		return p.ESC(prev.K), nil
	case prev.State == MG && cur.State == E && prev.K == p.M():
		return 0, nil
	case prev.State == DG && cur.State == E && prev.K == p.M():
		return 0, nil
	case prev.State == ML && cur.State == ML:
		return tsc.MM(profile.Local, prev.K), nil
	case prev.State == IL && cur.State == ML:
		return tsc.IM(profile.Local, prev.K), nil
	case prev.State == DL && cur.State == ML:
		return tsc.DM(profile.Local, prev.K), nil
	case prev.State == MG && cur.State == MG:
		return tsc.MM(profile.Glocal, prev.K), nil
	case prev.State == IG && cur.State == MG:
		return tsc.IM(profile.Glocal, prev.K), nil
	case prev.State == DG && cur.State == MG:
		return tsc.DM(profile.Glocal, prev.K), nil
	case prev.State == ML && cur.State == IL:
		return tsc.MI(profile.Local, prev.K), nil
	case prev.State == IL && cur.State == IL:
		return tsc.II(profile.Local, prev.K), nil
	case prev.State == MG && cur.State == IG:
		return tsc.MI(profile.Glocal, prev.K), nil
	case prev.State == IG && cur.State == IG:
		return tsc.II(profile.Glocal, prev.K), nil
	case prev.State == ML && cur.State == DL:
		return tsc.MD(profile.Local, prev.K), nil
	case prev.State == DL && cur.State == DL:
		return tsc.DD(profile.Local, prev.K), nil
	case prev.State == MG && cur.State == DG:
		return tsc.MD(profile.Glocal, prev.K), nil
	case prev.State == DG && cur.State == DG:
		return tsc.DD(profile.Glocal, prev.K), nil
	default:
		return 0, fmt.Errorf("%w: no transition %v->%v in replay", dpstatus.ErrTraceback, prev.State, cur.State)
	}
}
