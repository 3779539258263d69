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

import "github.com/nilsvik/phmmcore/logsum"

// Main-cell state slots, one supercell per (i,k) holding
// {M_L, M_G, I_L, I_G, D_L, D_G}.
const (
	slotML = iota
	slotMG
	slotIL
	slotIG
	slotDL
	slotDG
	numMainSlots
)

// Special-state row slots, one per row i, holding
// {E, N, J, B, L, G, C, JJ, CC}.
const (
	slotE = iota
	slotN
	slotJ
	slotB
	slotL
	slotG
	slotC
	slotJJ
	slotCC
	numSpecialSlots
)

// Matrix is the dense (M+2)x(L+2) reference DP matrix. It is
// reallocated only by Grow, and reused across calls to avoid
// allocation churn on the hot path.
type Matrix struct {
	kind           Kind
	m, l           int
	capM, capL     int
	main           []float32
	special        []float32
}

// New allocates a Matrix sized for an initial (m, l) worst case.
func New(kind Kind, m, l int) *Matrix {
	mx := &Matrix{kind: kind}
	mx.Grow(m, l)
	return mx
}

// Kind returns the matrix's tag.
func (mx *Matrix) Kind() Kind { return mx.kind }

// M returns the current allocated node count.
func (mx *Matrix) M() int { return mx.m }

// Len returns the current allocated sequence length.
func (mx *Matrix) Len() int { return mx.l }

// Grow reallocates mx only if its existing capacity is insufficient for
// (m, l); otherwise it is a no-op aside from updating the logical
// dimensions, so repeated calls against growing inputs avoid
// free/malloc churn.
func (mx *Matrix) Grow(m, l int) {
	mx.m, mx.l = m, l
	if m <= mx.capM && l <= mx.capL && mx.main != nil {
		return
	}
	if m > mx.capM {
		mx.capM = m
	}
	if l > mx.capL {
		mx.capL = l
	}
	mx.main = make([]float32, (mx.capL+2)*(mx.capM+2)*numMainSlots)
	mx.special = make([]float32, (mx.capL+2)*numSpecialSlots)
	mx.Reset()
}

// Reset fills every cell with -Inf, the log-space additive identity.
func (mx *Matrix) Reset() {
	for i := range mx.main {
		mx.main[i] = logsum.NegInf
	}
	for i := range mx.special {
		mx.special[i] = logsum.NegInf
	}
}

func (mx *Matrix) mainIdx(i, k, slot int) int {
	return (i*(mx.capM+2)+k)*numMainSlots + slot
}

func (mx *Matrix) specialIdx(i, slot int) int {
	return i*numSpecialSlots + slot
}

func (mx *Matrix) get(i, k, slot int) float32  { return mx.main[mx.mainIdx(i, k, slot)] }
func (mx *Matrix) set(i, k, slot int, v float32) { mx.main[mx.mainIdx(i, k, slot)] = v }
func (mx *Matrix) sp(i, slot int) float32      { return mx.special[mx.specialIdx(i, slot)] }
func (mx *Matrix) setSp(i, slot int, v float32) { mx.special[mx.specialIdx(i, slot)] = v }

func (mx *Matrix) ML(i, k int) float32 { return mx.get(i, k, slotML) }
func (mx *Matrix) MG(i, k int) float32 { return mx.get(i, k, slotMG) }
func (mx *Matrix) IL(i, k int) float32 { return mx.get(i, k, slotIL) }
func (mx *Matrix) IG(i, k int) float32 { return mx.get(i, k, slotIG) }
func (mx *Matrix) DL(i, k int) float32 { return mx.get(i, k, slotDL) }
func (mx *Matrix) DG(i, k int) float32 { return mx.get(i, k, slotDG) }

func (mx *Matrix) SetML(i, k int, v float32) { mx.set(i, k, slotML, v) }
func (mx *Matrix) SetMG(i, k int, v float32) { mx.set(i, k, slotMG, v) }
func (mx *Matrix) SetIL(i, k int, v float32) { mx.set(i, k, slotIL, v) }
func (mx *Matrix) SetIG(i, k int, v float32) { mx.set(i, k, slotIG, v) }
func (mx *Matrix) SetDL(i, k int, v float32) { mx.set(i, k, slotDL, v) }
func (mx *Matrix) SetDG(i, k int, v float32) { mx.set(i, k, slotDG, v) }

func (mx *Matrix) E(i int) float32  { return mx.sp(i, slotE) }
func (mx *Matrix) N(i int) float32  { return mx.sp(i, slotN) }
func (mx *Matrix) J(i int) float32  { return mx.sp(i, slotJ) }
func (mx *Matrix) B(i int) float32  { return mx.sp(i, slotB) }
func (mx *Matrix) L(i int) float32  { return mx.sp(i, slotL) }
func (mx *Matrix) G(i int) float32  { return mx.sp(i, slotG) }
func (mx *Matrix) C(i int) float32  { return mx.sp(i, slotC) }
func (mx *Matrix) JJ(i int) float32 { return mx.sp(i, slotJJ) }
func (mx *Matrix) CC(i int) float32 { return mx.sp(i, slotCC) }

func (mx *Matrix) SetE(i int, v float32)  { mx.setSp(i, slotE, v) }
func (mx *Matrix) SetN(i int, v float32)  { mx.setSp(i, slotN, v) }
func (mx *Matrix) SetJ(i int, v float32)  { mx.setSp(i, slotJ, v) }
func (mx *Matrix) SetB(i int, v float32)  { mx.setSp(i, slotB, v) }
func (mx *Matrix) SetL(i int, v float32)  { mx.setSp(i, slotL, v) }
func (mx *Matrix) SetG(i int, v float32)  { mx.setSp(i, slotG, v) }
func (mx *Matrix) SetC(i int, v float32)  { mx.setSp(i, slotC, v) }
func (mx *Matrix) SetJJ(i int, v float32) { mx.setSp(i, slotJJ, v) }
func (mx *Matrix) SetCC(i int, v float32) { mx.setSp(i, slotCC, v) }
