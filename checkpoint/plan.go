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

// Package checkpoint implements the memory-economical checkpointed
// striped-vector Forward/Backward matrix. One allocation is reused as
// two views: an R-row
// rotating/checkpointed Forward store, and a single wide row big enough
// for the MSV/Viterbi filter stages in package filter.
package checkpoint

// R0 is the fixed count of boundary/backward rows kept outside the
// Ra+Rb+Rc checkpoint budget.
const R0 = 3

// RowPlan is the three-region row-count decomposition: Ra rows
// storing the first La=Ra residues 1:1 ("all" region), Rb in {0,1} rows
// absorbing the residues between the all region and the first
// checkpoint block ("between" region), and Rc checkpoint rows, one per
// decreasing block of the checkpointed region.
type RowPlan struct {
	L        int  // total residues this plan was computed for
	Ra       int  // "all" region row/residue count
	Rb       int  // "between" region row count, 0 or 1
	Rc       int  // checkpoint row count
	Redlined bool // true if even full checkpointing exceeds the budget
}

// TotalRows returns Ra+Rb+Rc, the row count charged against the RAM
// budget (R0's boundary rows are allocated separately and always
// present).
func (p RowPlan) TotalRows() int { return p.Ra + p.Rb + p.Rc }

// checkpointCapacity returns Lc, the residue count a checkpointed region
// of rc rows covers: one checkpoint row per block of decreasing width
// rc+1, rc, ..., 2, so Lc = (rc+2)(rc+1)/2 - 1.
func checkpointCapacity(rc int) int {
	if rc <= 0 {
		return 0
	}
	return (rc+2)*(rc+1)/2 - 1
}

// PlanRows computes the row decomposition for a sequence of length L
// given maxRows, the row budget available after R0's boundary rows and
// the per-row byte cost have been subtracted from the RAM budget. The
// plan maximises Ra first, then falls back to checkpointing. If even a
// fully checkpointed layout cannot fit maxRows, PlanRows still returns
// a plan sized to cover L, marked Redlined, to be downsized on the
// next reuse.
func PlanRows(L, maxRows int) RowPlan {
	if maxRows < 0 {
		maxRows = 0
	}
	if L <= maxRows {
		// Maximise Ra first: the whole sequence fits without any
		// checkpointing.
		return RowPlan{L: L, Ra: L}
	}

	for rc := 0; ; rc++ {
		lc := checkpointCapacity(rc)
		if rc > maxRows {
			// Even a bare checkpoint region (Ra=Rb=0) doesn't fit the
			// budget. Allocate the smallest rc that covers L anyway,
			// exceeding the budget deliberately (redlined).
			for lc < L {
				rc++
				lc = checkpointCapacity(rc)
			}
			return RowPlan{L: L, Rc: rc, Redlined: true}
		}

		budget := maxRows - rc
		for rb := 1; rb >= 0; rb-- {
			if rb > budget {
				continue
			}
			raCap := budget - rb
			lbCap := 0
			if rb == 1 {
				lbCap = rc + 1
			}
			if raCap+lbCap+lc < L {
				continue
			}
			// This (ra, rb, rc) budget covers L; trim ra/rb down to
			// exactly what's needed so TotalRows doesn't overshoot L
			// for no reason, preferring to fill the "all" region
			// before spilling into the "between" row.
			remain := L - lc
			if remain < 0 {
				remain = 0
			}
			ra := min(raCap, remain)
			remain -= ra
			thisRb := 0
			if remain > 0 {
				thisRb = 1
			}
			return RowPlan{L: L, Ra: ra, Rb: thisRb, Rc: rc}
		}
	}
}
