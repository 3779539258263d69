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

package checkpoint

// blockWidths returns the decreasing block-width schedule: one
// checkpoint row per block of width rc+1, rc, ..., 2. Its widths sum
// to checkpointCapacity(rc).
func blockWidths(rc int) []int {
	w := make([]int, rc)
	for i := range w {
		w[i] = rc + 1 - i
	}
	return w
}

// tailBlock locates which block a 1-based offset into the checkpointed
// tail (offset = i - Ra - betweenWidth) falls in, and whether offset is that block's
// last row (the row a checkpoint slot retains).
func tailBlock(offset, rc int) (blockIdx int, isLast bool) {
	acc := 0
	widths := blockWidths(rc)
	for idx, w := range widths {
		if offset <= acc+w {
			return idx, offset == acc+w
		}
		acc += w
	}
	if len(widths) == 0 {
		return 0, true
	}
	return len(widths) - 1, true
}

// blockStart returns the first tail offset (1-based) belonging to
// block blockIdx.
func blockStart(blockIdx, rc int) int {
	acc := 0
	widths := blockWidths(rc)
	for idx, w := range widths {
		if idx == blockIdx {
			return acc + 1
		}
		acc += w
	}
	return acc + 1
}

// betweenWidth returns Lb, the residue count of the "between" region:
// the rows past the "all" region that the checkpointed tail does not
// cover. Its rows are never retained; regenerating one replays from
// row Ra.
func betweenWidth(plan RowPlan) int {
	lb := plan.L - plan.Ra - checkpointCapacity(plan.Rc)
	if lb < 0 {
		lb = 0
	}
	return lb
}

// nearestCheckpoint returns the highest retained row <= i for plan,
// the resume point Backward replays Forward from to regenerate row i.
func nearestCheckpoint(i int, plan RowPlan) int {
	if i <= plan.Ra {
		return i
	}
	lb := betweenWidth(plan)
	if i <= plan.Ra+lb {
		return plan.Ra
	}
	offset := i - plan.Ra - lb
	blockIdx, isLast := tailBlock(offset, plan.Rc)
	if isLast {
		return i
	}
	start := blockStart(blockIdx, plan.Rc)
	prevOffset := start - 1
	if prevOffset <= 0 {
		return plan.Ra
	}
	return plan.Ra + lb + prevOffset
}
