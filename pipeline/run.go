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
	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/refdp"
	"github.com/nilsvik/phmmcore/sparse"
)

const defaultRAMBudget = int64(64 << 20)

// Run executes one Job through the required stage order: Forward
// before its Backward, Backward before Decoding, Decoding before
// anchor-finding. Each
// stage owns private matrices allocated for this call alone, so two
// Jobs running concurrently on the same Pool never share mutable
// state.
//
// The accelerated path is: checkpointed Forward/Backward (package
// checkpoint) to obtain a total score and a sparse mask cheaply, then
// the dense-but-masked sparse.Forward/Backward/Decode restricted to
// that mask to recover full per-cell posteriors, then anchor-finding
// over the decoded posteriors. Decoding straight off the checkpointed
// matrix is not an option: it retains only a few rows.
func Run(job Job) Result {
	p, seq := job.Profile, job.Seq
	log := job.logger()
	m, l := p.M(), seq.L()

	ramBudget := job.RAMBudget
	if ramBudget <= 0 {
		ramBudget = defaultRAMBudget
	}

	log.StageStarted(job, "checkpoint.Forward")
	mx := checkpoint.New(m, l, ramBudget)
	fsc, err := checkpoint.Forward(mx, p, seq)
	status := statusOf(err)
	log.StageFinished(job, "checkpoint.Forward", status)
	if err != nil {
		return fail(status, "checkpoint.Forward", err)
	}

	log.StageStarted(job, "checkpoint.Backward")
	_, mask, err := checkpoint.Backward(mx, p, seq, fsc, job.MaskThreshold)
	status = statusOf(err)
	log.StageFinished(job, "checkpoint.Backward", status)
	if err != nil {
		return fail(status, "checkpoint.Backward", err)
	}

	if len(mask.Segments()) == 0 {
		return Result{Status: dpstatus.OK, Score: fsc, Mask: mask}
	}

	fwd := refdp.New(refdp.Fwd, m, l)
	bck := refdp.New(refdp.Bck, m, l)
	pp := refdp.New(refdp.Decoding, m, l)

	log.StageStarted(job, "sparse.Forward")
	sparseFsc, err := sparse.Forward(fwd, p, seq, mask)
	status = statusOf(err)
	log.StageFinished(job, "sparse.Forward", status)
	if err != nil {
		return fail(status, "sparse.Forward", err)
	}

	log.StageStarted(job, "sparse.Backward")
	_, err = sparse.Backward(bck, p, seq, mask)
	status = statusOf(err)
	log.StageFinished(job, "sparse.Backward", status)
	if err != nil {
		return fail(status, "sparse.Backward", err)
	}

	log.StageStarted(job, "sparse.Decode")
	err = sparse.Decode(pp, fwd, bck, p, seq, sparseFsc)
	status = statusOf(err)
	log.StageFinished(job, "sparse.Decode", status)
	if err != nil {
		return fail(status, "sparse.Decode", err)
	}

	log.StageStarted(job, "anchorFind")
	anchors, err := anchorFind(pp, mask, m)
	status = statusOf(err)
	log.StageFinished(job, "anchorFind", status)
	if err != nil {
		return fail(status, "anchorFind", err)
	}

	return Result{
		Status:  dpstatus.OK,
		Score:   sparseFsc,
		Mask:    mask,
		Decode:  pp,
		Anchors: anchors,
	}
}

func fail(status dpstatus.Status, stage string, err error) Result {
	return Result{Status: status, FailedStage: stage, Err: err}
}

func statusOf(err error) dpstatus.Status {
	if err == nil {
		return dpstatus.OK
	}
	if status, ok := dpstatus.FromError(err); ok {
		return status
	}
	return dpstatus.InvalidArgument
}

// anchorFind picks one anchor per mask segment: the (i,k) cell within
// that segment's rows with the greatest combined match-state posterior
// mass (local plus glocal), the simplest "most probable state per
// domain" rule that satisfies asc.AnchorSet's strictly-increasing-by-I
// contract without requiring a full stochastic traceback.
func anchorFind(pp *refdp.Matrix, mask *sparse.Mask, m int) (*asc.AnchorSet, error) {
	segs := mask.Segments()
	anchors := make([]asc.Anchor, 0, len(segs))
	minK := 1
	for _, seg := range segs {
		bestI, bestK, bestMass := seg.IStart, minK, float32(-1)
		for i := seg.IStart; i <= seg.IEnd; i++ {
			for k := minK; k <= m; k++ {
				mass := pp.ML(i, k) + pp.MG(i, k)
				if mass > bestMass {
					bestMass, bestI, bestK = mass, i, k
				}
			}
		}
		anchors = append(anchors, asc.Anchor{I: bestI, K: bestK})
		minK = bestK
	}
	return asc.New(anchors)
}
