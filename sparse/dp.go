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

package sparse

import (
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/refdp"
)

// Viterbi fills mx restricted to mask's admissible cells and returns
// the masked Viterbi score.
func Viterbi(mx *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, mask *Mask) (float32, error) {
	return refdp.RunViterbiMasked(mx, p, seq, mask.Gate())
}

// Forward fills mx restricted to mask's admissible cells and returns
// the masked Forward score.
func Forward(mx *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, mask *Mask) (float32, error) {
	return refdp.RunForwardMasked(mx, p, seq, mask.Gate())
}

// Backward fills mx restricted to mask's admissible cells and returns
// the masked Backward score.
func Backward(mx *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, mask *Mask) (float32, error) {
	return refdp.RunBackwardMasked(mx, p, seq, mask.Gate())
}

// Decode combines masked fwd/bck matrices into pp. Cells outside mask
// are already -Inf in both inputs, so Decode's ordinary per-cell
// exp(fwd+bck-totsc) naturally contributes 0 there; no separate masked
// recursion is needed (see refdp/masked.go).
func Decode(pp, fwd, bck *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc float32) error {
	return refdp.Decode(pp, fwd, bck, p, seq, totsc)
}
