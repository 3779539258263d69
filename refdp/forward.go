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

// RunForward fills mx (kind Fwd) with the summed-path log-odds scores
// for seq against p and returns the Forward score: the same recursion
// shape as RunViterbi, with logsum in place of max at every cell. mx
// must already be tagged Fwd.
func RunForward(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if mx.Kind() != Fwd {
		return 0, fmt.Errorf("%w: RunForward requires a Fwd matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return forwardLikeRecursion(mx, p, seq, sumCombine, nil), nil
}
