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

package profile

import "github.com/nilsvik/phmmcore/logsum"

// transKind enumerates the seven internal per-node transitions, MM, MI,
// MD, IM, II, DM and DD, each carried in a local and a glocal copy.
type transKind int

const (
	tMM transKind = iota
	tMI
	tMD
	tIM
	tII
	tDM
	tDD
	numTrans
)

// TSC holds the per-node transition log-odds scores, indexed 0..M.
// tsc[0] is -Inf for every transition; there is no node 0.
type TSC struct {
	scores [numTrans][2][]float32
	// gm stores the G-entry score for M_k at index k-1; gm has length
	// M, covering k=1..M. Every reader assumes this off-by-one layout.
	gm []float32
}

// newTSC allocates a TSC for a profile of M nodes, with tsc[0] fixed at
// -Inf for every transition and lane.
func newTSC(m int) *TSC {
	t := &TSC{gm: make([]float32, m)}
	for kind := transKind(0); kind < numTrans; kind++ {
		for lane := Local; lane <= Glocal; lane++ {
			s := make([]float32, m+1)
			for i := range s {
				s[i] = logsum.NegInf
			}
			t.scores[kind][lane] = s
		}
	}
	for i := range t.gm {
		t.gm[i] = logsum.NegInf
	}
	return t
}

func (t *TSC) set(kind transKind, lane Lane, k int, v float32) { t.scores[kind][lane][k] = v }

// MM returns the M_k(lane) -> M_{k+1}(lane) transition score.
func (t *TSC) MM(lane Lane, k int) float32 { return t.scores[tMM][lane][k] }

// MI returns the M_k(lane) -> I_k(lane) transition score.
func (t *TSC) MI(lane Lane, k int) float32 { return t.scores[tMI][lane][k] }

// MD returns the M_k(lane) -> D_{k+1}(lane) transition score.
func (t *TSC) MD(lane Lane, k int) float32 { return t.scores[tMD][lane][k] }

// IM returns the I_k(lane) -> M_{k+1}(lane) transition score.
func (t *TSC) IM(lane Lane, k int) float32 { return t.scores[tIM][lane][k] }

// II returns the I_k(lane) -> I_k(lane) transition score.
func (t *TSC) II(lane Lane, k int) float32 { return t.scores[tII][lane][k] }

// DM returns the D_k(lane) -> M_{k+1}(lane) transition score.
func (t *TSC) DM(lane Lane, k int) float32 { return t.scores[tDM][lane][k] }

// DD returns the D_k(lane) -> D_{k+1}(lane) transition score.
func (t *TSC) DD(lane Lane, k int) float32 { return t.scores[tDD][lane][k] }

// GM returns the wing-retracted G -> M_k entry score stored at index
// k-1. kMinus1 is k-1, not k; callers must not pass k directly.
func (t *TSC) GM(kMinus1 int) float32 { return t.gm[kMinus1] }
