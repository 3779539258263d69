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
	"github.com/nilsvik/phmmcore/profile"
)

// Gate answers whether cell (i,k) is admissible. Package sparse builds
// one from its Mask type; this is the one seam the sparse DP surface
// uses to restrict the dense recursions in this package without
// maintaining a second copy of them.
type Gate func(i, k int) bool

// RunViterbiMasked is RunViterbi restricted to the cells gate admits.
func RunViterbiMasked(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, gate Gate) (float32, error) {
	if mx.Kind() != Viterbi {
		return 0, fmt.Errorf("%w: RunViterbiMasked requires a Viterbi matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return forwardLikeRecursion(mx, p, seq, maxCombine, cellGate(gate)), nil
}

// RunForwardMasked is RunForward restricted to the cells gate admits.
func RunForwardMasked(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, gate Gate) (float32, error) {
	if mx.Kind() != Fwd {
		return 0, fmt.Errorf("%w: RunForwardMasked requires a Fwd matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return forwardLikeRecursion(mx, p, seq, sumCombine, cellGate(gate)), nil
}

// RunBackwardMasked is RunBackward restricted to the cells gate admits.
func RunBackwardMasked(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence, gate Gate) (float32, error) {
	if mx.Kind() != Bck {
		return 0, fmt.Errorf("%w: RunBackwardMasked requires a Bck matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return backwardRecursion(mx, p, seq, cellGate(gate)), nil
}

// Decoding over masked Fwd/Bck matrices needs no separate entry point:
// a cell outside the mask already holds -Inf in both matrices, so
// Decode's ordinary exp(fwd+bck-totsc) contributes exactly 0 there, and
// renormalizeRows ignores it without any special-casing.
