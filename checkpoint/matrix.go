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

// Special-state row slots, a trailing block of 8 floats per row.
const (
	slotE = iota
	slotN
	slotJJ
	slotJ
	slotB
	slotCC
	slotC
	slotSCALE
	numSpecialSlots
)

// Row is one striped Forward/Backward row: six Q*V-lane state vectors
// (ML, MG, IL, IG, DL, DG) plus the trailing special-state block. A Row
// is a view into Matrix.dpMem at a fixed stride, never an independent
// allocation.
//
// Unlike the reference matrices, cells hold linear (unscaled)
// probabilities, not log-odds: 0 is the unreachable value, and values
// grow until maybeRescale divides the row back down. The SCALE slot
// accumulates the log of every rescale factor applied so far, so
// log(cell)+SCALE recovers a cell's log value and the product of the
// factors times C(L) recovers the unscaled Forward value.
type Row struct {
	ml, mg, il, ig, dl, dg []float32
	special                []float32
}

func (r *Row) reset() {
	for _, s := range [][]float32{r.ml, r.mg, r.il, r.ig, r.dl, r.dg} {
		for i := range s {
			s[i] = 0
		}
	}
	for i := range r.special {
		r.special[i] = 0
	}
}

func (r *Row) E() float32      { return r.special[slotE] }
func (r *Row) N() float32      { return r.special[slotN] }
func (r *Row) JJ() float32     { return r.special[slotJJ] }
func (r *Row) J() float32      { return r.special[slotJ] }
func (r *Row) B() float32      { return r.special[slotB] }
func (r *Row) CC() float32     { return r.special[slotCC] }
func (r *Row) C() float32      { return r.special[slotC] }
func (r *Row) Scale() float32  { return r.special[slotSCALE] }

func (r *Row) SetE(v float32)     { r.special[slotE] = v }
func (r *Row) SetN(v float32)     { r.special[slotN] = v }
func (r *Row) SetJJ(v float32)    { r.special[slotJJ] = v }
func (r *Row) SetJ(v float32)     { r.special[slotJ] = v }
func (r *Row) SetB(v float32)     { r.special[slotB] = v }
func (r *Row) SetCC(v float32)    { r.special[slotCC] = v }
func (r *Row) SetC(v float32)     { r.special[slotC] = v }
func (r *Row) SetScale(v float32) { r.special[slotSCALE] = v }

// Matrix is the checkpointed striped-vector matrix: one flat allocation
// (dp_mem) reinterpreted as either an R-row Forward/Backward store
// (Boundary/RetainedRow and the live rotation) or a flat span the
// filter stages carve their int8/int16 rows from (AsWideRow): two
// distinct views over one allocation.
type Matrix struct {
	ly   layout
	plan RowPlan

	// dpMem is the single backing allocation; every Row below is a
	// slice view into it, not an independent slice.
	dpMem []float32

	boundary *Row // slot 0: row i=0 initialization
	liveA    *Row // slot 1: rotating sweep buffer
	liveB    *Row // slot 2: rotating sweep buffer
	all      []*Row
	ckpt     []*Row

	// regenA/regenB back Backward's on-demand Forward-row regeneration
	// (package regen.go); allocated lazily since a Backward-only caller
	// never needs them.
	regenA *Row
	regenB *Row
}

// rowFloats is the flat element count of one row: six qv-length state
// vectors plus the trailing special-state block.
func rowFloats(ly layout) int { return 6*ly.qv() + numSpecialSlots }

// New allocates a Matrix for a profile of m consensus positions and a
// sequence of length l, planning its checkpoint layout against
// ramBudget bytes.
func New(m, l int, ramBudget int64) *Matrix {
	mx := &Matrix{}
	mx.Reset(m, l, ramBudget)
	return mx
}

// Reset re-plans and, if necessary, reallocates mx for (m, l, ramBudget).
// A redlined allocation from a previous hard case is downsized here
// rather than kept oversized forever.
func (mx *Matrix) Reset(m, l int, ramBudget int64) {
	ly := newLayout(m)
	bytesPerRow := int64(rowFloats(ly)) * 4
	maxRows := 0
	if bytesPerRow > 0 {
		maxRows = int(ramBudget/bytesPerRow) - R0
	}
	plan := PlanRows(l, maxRows)

	total := R0 + plan.TotalRows()
	mx.ly = ly
	mx.plan = plan
	mx.dpMem = make([]float32, total*rowFloats(ly))
	mx.wireRows()
	mx.ResetRows()
}

// wireRows slices dpMem into the fixed-stride Row views; it must run
// again after any reallocation.
func (mx *Matrix) wireRows() {
	stride := rowFloats(mx.ly)
	qv := mx.ly.qv()
	mkRow := func(idx int) *Row {
		base := idx * stride
		seg := mx.dpMem[base : base+stride]
		return &Row{
			ml:      seg[0*qv : 1*qv],
			mg:      seg[1*qv : 2*qv],
			il:      seg[2*qv : 3*qv],
			ig:      seg[3*qv : 4*qv],
			dl:      seg[4*qv : 5*qv],
			dg:      seg[5*qv : 6*qv],
			special: seg[6*qv : 6*qv+numSpecialSlots],
		}
	}

	idx := 0
	mx.boundary = mkRow(idx)
	idx++
	mx.liveA = mkRow(idx)
	idx++
	mx.liveB = mkRow(idx)
	idx++

	mx.all = make([]*Row, mx.plan.Ra)
	for i := range mx.all {
		mx.all[i] = mkRow(idx)
		idx++
	}
	// Rb's planned row folds into the liveA/liveB rotation already
	// reserved by R0: every sweep only ever needs one previous and one
	// current row regardless of which sub-region it is in, so Rb
	// contributes to the budget accounting (RowPlan, TotalRows)
	// without a fourth dedicated physical slot.
	mx.ckpt = make([]*Row, mx.plan.Rc)
	for i := range mx.ckpt {
		mx.ckpt[i] = mkRow(idx)
		idx++
	}
}

// ResetRows reinitializes every row to probability 0 / log-scale 0,
// without reallocating, so an allocation is reused across calls.
func (mx *Matrix) ResetRows() {
	mx.boundary.reset()
	mx.liveA.reset()
	mx.liveB.reset()
	for _, r := range mx.all {
		r.reset()
	}
	for _, r := range mx.ckpt {
		r.reset()
	}
}

// Plan returns the row decomposition in effect.
func (mx *Matrix) Plan() RowPlan { return mx.plan }

// M returns the consensus-position count this layout was sized for.
func (mx *Matrix) M() int { return mx.ly.m }

// V returns the current lane width.
func (mx *Matrix) V() int { return mx.ly.v }

// Q returns the current striped vector count.
func (mx *Matrix) Q() int { return mx.ly.q }

// AsWideRow returns the whole backing allocation as one flat []float32,
// the view the filter stages use for a single-row MSV/Viterbi buffer;
// a single-row filter may use the full span.
func (mx *Matrix) AsWideRow() []float32 { return mx.dpMem }

// Boundary returns the row-0 initialization row.
func (mx *Matrix) Boundary() *Row { return mx.boundary }

// RetainedRow returns the permanently retained row for sequence
// position i, and whether one is retained there at all (only rows in
// the "all" region or a checkpoint block's final row are retained;
// every other row only ever exists transiently in the live rotation
// during a single forward sweep).
func (mx *Matrix) RetainedRow(i int) (*Row, bool) {
	if i == 0 {
		return mx.boundary, true
	}
	if i <= mx.plan.Ra {
		return mx.all[i-1], true
	}
	offset := i - mx.plan.Ra - betweenWidth(mx.plan)
	if offset <= 0 {
		// "between" region: transient rows, replayed from row Ra.
		return nil, false
	}
	blockIdx, isLast := tailBlock(offset, mx.plan.Rc)
	if !isLast {
		return nil, false
	}
	return mx.ckpt[blockIdx], true
}

// NearestCheckpoint returns the highest row <= i that RetainedRow can
// serve directly, the row Backward must replay Forward from to
// regenerate row i.
func (mx *Matrix) NearestCheckpoint(i int) int {
	return nearestCheckpoint(i, mx.plan)
}
