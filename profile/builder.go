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

package profile

import (
	"fmt"
	stdmath "math"

	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/logsum"
)

// Builder accumulates a profile's scores and freezes them into an
// immutable Profile on Build. This keeps a constructor-only
// construction discipline: a Builder is mutable scratch space, the
// Profile it produces is not.
type Builder struct {
	p   *Profile
	err error
}

// NewBuilder starts a Builder for an M-node profile over a K-symbol
// alphabet.
func NewBuilder(m, k int) *Builder {
	b := &Builder{p: &Profile{
		m:   m,
		k:   k,
		tsc: newTSC(m),
		rsc: newRSC(m, k),
		bsc: make([]float32, m+1),
		esc: make([]float32, m+1),
	}}
	for i := range b.p.bsc {
		b.p.bsc[i] = logsum.NegInf
		b.p.esc[i] = logsum.NegInf
	}
	return b
}

func (b *Builder) fail(format string, args ...any) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: "+format, append([]any{dpstatus.ErrInvalidArgument}, args...)...)
	}
}

// SetTrans sets the score for one of the seven internal transition kinds,
// for a given lane, at node k (the source node). k=0 is rejected: there
// is no node 0, so tsc[0] must stay -Inf.
func (b *Builder) SetTrans(kind string, lane Lane, k int, score float32) *Builder {
	if k <= 0 || k > b.p.m {
		b.fail("SetTrans: k=%d out of range [1,%d]", k, b.p.m)
		return b
	}
	var tk transKind
	switch kind {
	case "MM":
		tk = tMM
	case "MI":
		tk = tMI
	case "MD":
		tk = tMD
	case "IM":
		tk = tIM
	case "II":
		tk = tII
	case "DM":
		tk = tDM
	case "DD":
		tk = tDD
	default:
		b.fail("SetTrans: unknown transition kind %q", kind)
		return b
	}
	b.p.tsc.set(tk, lane, k, score)
	return b
}

// SetGM sets the wing-retracted G->M_k entry score, for k in [1,M]. It is
// stored internally at index k-1; callers always pass k, never k-1.
func (b *Builder) SetGM(k int, score float32) *Builder {
	if k <= 0 || k > b.p.m {
		b.fail("SetGM: k=%d out of range [1,%d]", k, b.p.m)
		return b
	}
	b.p.tsc.gm[k-1] = score
	return b
}

// SetMatchEmission sets the match-state emission score for symbol x at
// node k, k in [1,M].
func (b *Builder) SetMatchEmission(x, k int, score float32) *Builder {
	if k <= 0 || k > b.p.m {
		b.fail("SetMatchEmission: k=%d out of range [1,%d]", k, b.p.m)
		return b
	}
	b.p.rsc.setMatch(x, k, score)
	return b
}

// SetInsertEmission sets the insert-state emission score for symbol x at
// node k, k in [0,M-1]. I_M does not exist.
func (b *Builder) SetInsertEmission(x, k int, score float32) *Builder {
	if k < 0 || k >= b.p.m {
		b.fail("SetInsertEmission: k=%d out of range [0,%d)", k, b.p.m)
		return b
	}
	b.p.rsc.setInsert(x, k, score)
	return b
}

// SetBSC sets the B->M_k begin score, k in [1,M].
func (b *Builder) SetBSC(k int, score float32) *Builder {
	if k <= 0 || k > b.p.m {
		b.fail("SetBSC: k=%d out of range [1,%d]", k, b.p.m)
		return b
	}
	b.p.bsc[k] = score
	return b
}

// SetESC sets the M_k->E exit score, k in [1,M].
func (b *Builder) SetESC(k int, score float32) *Builder {
	if k <= 0 || k > b.p.m {
		b.fail("SetESC: k=%d out of range [1,%d]", k, b.p.m)
		return b
	}
	b.p.esc[k] = score
	return b
}

// SetXSC sets the whole special-transition table at once.
func (b *Builder) SetXSC(xsc XSC) *Builder {
	b.p.xsc = xsc
	return b
}

// SetMode sets the alignment-lane mode.
func (b *Builder) SetMode(mode AlignMode) *Builder {
	b.p.mode = mode
	return b
}

// SetMultiplicity sets unihit vs multihit.
func (b *Builder) SetMultiplicity(mult Multiplicity) *Builder {
	b.p.mult = mult
	return b
}

// SetLengthModel sets the target-length model.
func (b *Builder) SetLengthModel(lm LengthModel) *Builder {
	b.p.len = lm
	return b
}

// SetName sets the profile's display name.
func (b *Builder) SetName(name string) *Builder {
	b.p.name = name
	return b
}

// Build validates the model's structural invariants and freezes the
// accumulated scores into an immutable Profile.
func (b *Builder) Build() (*Profile, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := b.p
	if err := validateNode0(p); err != nil {
		return nil, err
	}
	if err := validateIMDMExclusions(p); err != nil {
		return nil, err
	}
	if err := validateLengthModel(p); err != nil {
		return nil, err
	}
	return p, nil
}

const isNegInfTol = 1e-6

func isNegInf(v float32) bool {
	return stdmath.IsInf(float64(v), -1)
}

// validateNode0 checks that tsc[0] is -Inf for every transition kind and
// lane; there is no node 0.
func validateNode0(p *Profile) error {
	for kind := transKind(0); kind < numTrans; kind++ {
		for lane := Local; lane <= Glocal; lane++ {
			if !isNegInf(p.tsc.scores[kind][lane][0]) {
				return fmt.Errorf("%w: tsc[k=0] must be -Inf, kind=%d lane=%v", dpstatus.ErrInvalidArgument, kind, lane)
			}
		}
	}
	return nil
}

// validateIMDMExclusions checks the final-node boundary exclusions: I_M
// does not exist, so anything referencing it must be -Inf.
func validateIMDMExclusions(p *Profile) error {
	m := p.m
	for lane := Local; lane <= Glocal; lane++ {
		if !isNegInf(p.tsc.II(lane, m)) {
			return fmt.Errorf("%w: II(%v,M) must be -Inf (I_M does not exist)", dpstatus.ErrInvalidArgument, lane)
		}
		if !isNegInf(p.tsc.IM(lane, m)) {
			return fmt.Errorf("%w: IM(%v,M) must be -Inf (I_M does not exist)", dpstatus.ErrInvalidArgument, lane)
		}
		if !isNegInf(p.tsc.DD(lane, m)) {
			return fmt.Errorf("%w: DD(%v,M) must be -Inf (D_M->D_{M+1} does not exist)", dpstatus.ErrInvalidArgument, lane)
		}
	}
	return nil
}

// validateLengthModel checks that N/C/J's LOOP+MOVE form a valid
// distribution over continuing-in-flank vs entering-model.
func validateLengthModel(p *Profile) error {
	check := func(name string, lm XLoopMove) error {
		if isNegInf(lm.Loop) && isNegInf(lm.Move) {
			return fmt.Errorf("%w: xsc[%s] has no finite transition", dpstatus.ErrInvalidArgument, name)
		}
		total := logsum.Exact(lm.Loop, lm.Move)
		if stdmath.Abs(float64(total)) > 0.05 {
			return fmt.Errorf("%w: xsc[%s] LOOP+MOVE does not sum to a probability (logsum=%v)", dpstatus.ErrInvalidArgument, name, total)
		}
		return nil
	}
	if err := check("N", p.xsc.N); err != nil {
		return err
	}
	if err := check("C", p.xsc.C); err != nil {
		return err
	}
	if err := check("J", p.xsc.J); err != nil {
		return err
	}
	return nil
}
