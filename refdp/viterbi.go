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

// RunViterbi fills mx (kind Viterbi) with the optimal-path log-odds
// scores for seq against p and returns the Viterbi score. mx must
// already be tagged Viterbi; it is grown to (p.M(), seq.L()) as needed.
func RunViterbi(mx *Matrix, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	if mx.Kind() != Viterbi {
		return 0, fmt.Errorf("%w: RunViterbi requires a Viterbi matrix, got %v", dpstatus.ErrInvalidArgument, mx.Kind())
	}
	mx.Grow(p.M(), seq.L())
	return forwardLikeRecursion(mx, p, seq, maxCombine, nil), nil
}
