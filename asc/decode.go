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

package asc

import (
	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/profile"
	"github.com/nilsvik/phmmcore/refdp"
)

// Decode combines the filled ASC Forward and Backward sector matrices
// into ppUp (kind ASCDecodeUp) and ppDown (kind ASCDecodeDown), one
// posterior-probability matrix per sector. refdp.DecodeRaw already
// accepts the ASC Kind tags — a sector's raw posteriors are computed
// the same way as the unconstrained case, restricted to that sector —
// so this runs the shared routine once per sector, then renormalizes
// each row over both sectors together: the two sectors partition a
// row's main cells, so they share one denominator, and renormalizing
// either one alone would double-count the row's mass.
func Decode(ppUp, ppDown, fwdUp, fwdDown, bckUp, bckDown *refdp.Matrix, p *profile.Profile, seq dnaseq.Sequence, totsc float32) error {
	if err := refdp.DecodeRaw(ppUp, fwdUp, bckUp, p, seq, totsc); err != nil {
		return err
	}
	if err := refdp.DecodeRaw(ppDown, fwdDown, bckDown, p, seq, totsc); err != nil {
		return err
	}

	m, l := p.M(), seq.L()
	for i := 1; i <= l; i++ {
		// The special-state chain is shared: both sectors carry the same
		// N/JJ/CC values, so they are counted once (from ppDown) and
		// rescaled in both.
		sum := ppDown.N(i) + ppDown.JJ(i) + ppDown.CC(i)
		for k := 1; k <= m; k++ {
			sum += ppUp.ML(i, k) + ppUp.MG(i, k) + ppUp.IL(i, k) + ppUp.IG(i, k)
			sum += ppDown.ML(i, k) + ppDown.MG(i, k) + ppDown.IL(i, k) + ppDown.IG(i, k)
		}
		if sum <= 0 {
			continue
		}
		inv := 1 / sum
		for _, pp := range [2]*refdp.Matrix{ppUp, ppDown} {
			for k := 1; k <= m; k++ {
				pp.SetML(i, k, pp.ML(i, k)*inv)
				pp.SetMG(i, k, pp.MG(i, k)*inv)
				pp.SetIL(i, k, pp.IL(i, k)*inv)
				pp.SetIG(i, k, pp.IG(i, k)*inv)
			}
			pp.SetN(i, pp.N(i)*inv)
			pp.SetJJ(i, pp.JJ(i)*inv)
			pp.SetCC(i, pp.CC(i)*inv)
		}
	}
	return nil
}
