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

// Package sparse holds the sparse-mask type the filter core emits
// and the sparse DP surface: Viterbi, Forward, Backward and Decode
// restricted to the mask's admissible cells. The algorithm bodies
// delegate to refdp's masked entry points rather than re-deriving the
// recursions.
package sparse

import (
	"fmt"

	"github.com/nilsvik/phmmcore/dpstatus"
	"github.com/nilsvik/phmmcore/refdp"
)

// Range is an admissible, inclusive [KA,KB] column range within one row.
type Range struct {
	KA, KB int
}

// Segment is a maximal run of consecutive rows that each contributed at
// least one Range.
type Segment struct {
	IStart, IEnd int
}

// Mask is the per-row list of admissible k-ranges produced by the
// filter core's Backward pass.
type Mask struct {
	l    int
	rows [][]Range // rows[i], i in [1,l]; rows[0] is always empty
}

// New allocates an empty Mask over sequence length l: no ranges, no
// segments, until AddRange is called.
func New(l int) *Mask {
	return &Mask{l: l, rows: make([][]Range, l+1)}
}

// L returns the sequence length this mask was built over.
func (m *Mask) L() int { return m.l }

// AddRange appends [ka,kb] to row i's range list. Ranges within a row
// must be added in increasing, non-overlapping order; AddRange rejects
// a call that would violate that rather than
// silently reordering, since the filter core always produces ranges
// left-to-right as it scans k.
func (m *Mask) AddRange(i, ka, kb int) error {
	if i < 1 || i > m.l {
		return fmt.Errorf("%w: row %d out of range [1,%d]", dpstatus.ErrInvalidArgument, i, m.l)
	}
	if ka > kb {
		return fmt.Errorf("%w: range [%d,%d] is empty", dpstatus.ErrInvalidArgument, ka, kb)
	}
	row := m.rows[i]
	if len(row) > 0 && ka <= row[len(row)-1].KB {
		return fmt.Errorf("%w: range [%d,%d] overlaps or precedes previous range [%d,%d] in row %d",
			dpstatus.ErrInvalidArgument, ka, kb, row[len(row)-1].KA, row[len(row)-1].KB, i)
	}
	m.rows[i] = append(row, Range{KA: ka, KB: kb})
	return nil
}

// Ranges returns row i's admissible ranges, sorted and non-overlapping.
func (m *Mask) Ranges(i int) []Range {
	if i < 0 || i > m.l {
		return nil
	}
	return m.rows[i]
}

// Allows reports whether cell (i,k) is admissible under this mask.
func (m *Mask) Allows(i, k int) bool {
	if i < 0 || i > m.l {
		return false
	}
	for _, r := range m.rows[i] {
		if k >= r.KA && k <= r.KB {
			return true
		}
		if k < r.KA {
			break
		}
	}
	return false
}

// Gate adapts Allows to refdp.Gate, the seam the masked DP entry points
// use to restrict themselves to this mask.
func (m *Mask) Gate() refdp.Gate {
	return m.Allows
}

// Segments returns the maximal runs of consecutive non-empty rows.
func (m *Mask) Segments() []Segment {
	var segs []Segment
	start := -1
	for i := 1; i <= m.l; i++ {
		nonEmpty := len(m.rows[i]) > 0
		switch {
		case nonEmpty && start == -1:
			start = i
		case !nonEmpty && start != -1:
			segs = append(segs, Segment{IStart: start, IEnd: i - 1})
			start = -1
		}
	}
	if start != -1 {
		segs = append(segs, Segment{IStart: start, IEnd: m.l})
	}
	return segs
}

// FromThreshold builds a Mask from a filled posterior Decoding matrix,
// keeping a cell (i,k) admissible when its match+insert+delete
// posterior, summed over both lanes, is at least threshold. Consecutive
// surviving k within a row are coalesced into one Range.
func FromThreshold(pp *refdp.Matrix, m, l int, threshold float32) *Mask {
	mask := New(l)
	for i := 1; i <= l; i++ {
		ka := -1
		for k := 1; k <= m; k++ {
			mass := pp.ML(i, k) + pp.MG(i, k) + pp.DL(i, k) + pp.DG(i, k)
			if k < m {
				mass += pp.IL(i, k) + pp.IG(i, k)
			}
			if mass >= threshold {
				if ka == -1 {
					ka = k
				}
				continue
			}
			if ka != -1 {
				mask.AddRange(i, ka, k-1)
				ka = -1
			}
		}
		if ka != -1 {
			mask.AddRange(i, ka, m)
		}
	}
	return mask
}
