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
)

// Forward runs the production Forward filter stage. It is package
// checkpoint's Forward, called here under the filter stage's name:
// checkpoint's matrix already *is* the striped single-precision layout
// this stage needs, so
// wrapping it instead of re-deriving the same recursion keeps the
// filter and production Forward paths from drifting apart (the same
// discipline package sparse uses to share refdp's recursion bodies).
// mx is the same matrix the earlier integer stages carved their rows
// from; Forward resets it and takes over the float32 row view.
func Forward(mx *checkpoint.Matrix, p *profile.Profile, seq dnaseq.Sequence) (float32, error) {
	return checkpoint.Forward(mx, p, seq)
}
