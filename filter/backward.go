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

package filter

import (
	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/sparse"
)

// Backward runs the production Backward filter stage and emits the
// sparse mask the downstream sparse DP restricts itself to. mx must be
// the same matrix Forward(mx, p, seq) just filled; totsc is the
// Forward score that call returned.
func Backward(mx *checkpoint.Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc, threshold float32) (float32, *sparse.Mask, error) {
	return checkpoint.Backward(mx, p, seq, totsc, threshold)
}
