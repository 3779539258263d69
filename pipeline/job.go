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

package pipeline

import (
	"github.com/nilsvik/phmmcore/asc"
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/refdp"
	"github.com/nilsvik/phmmcore/sparse"
)

// Job bundles one independent (profile, sequence) pair, the unit at
// which the pool parallelizes. Profile
// is shared by reference across every Job in a batch — safe, since a
// built Profile is immutable — while Seq is owned exclusively by this
// Job and never touched by another goroutine.
type Job struct {
	Profile *profile.Profile
	Seq     dnaseq.Sequence

	// RAMBudget governs the checkpointed Forward/Backward layout.
	// Zero or a negative value selects Run's 64 MiB default.
	RAMBudget int64
	// MaskThreshold is the posterior-mass cutoff the checkpointed
	// Backward pass uses to decide which cells survive into the sparse
	// mask.
	MaskThreshold float32

	Logger Logger
}

func (j Job) logger() Logger {
	if j.Logger == nil {
		return NoopLogger{}
	}
	return j.Logger
}

// Result is everything a Job produces: the Forward/Backward total
// score, the sparse mask the checkpointed Backward emitted, the
// restricted posterior-decoding matrix, and one anchor per surviving
// domain segment — or a non-OK Status and the stage at which the job
// stopped.
type Result struct {
	Status      dpstatus.Status
	FailedStage string
	Err         error

	Score   float32
	Mask    *sparse.Mask
	Decode  *refdp.Matrix
	Anchors *asc.AnchorSet
}
