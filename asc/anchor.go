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

// Package asc implements anchor-set-constrained Forward, Backward and
// Decoding: DP restricted to paths that visit a caller-
// supplied ordered list of (i,k) anchor points, one per domain, in
// order. Each anchor splits the matrix into an UP sector (model entry,
// no exit) and a DOWN sector (model exit, no re-entry); between
// domains the ordinary J-state reconnection applies.
package asc

import (
	"fmt"
	"sort"

	"github.com/nilsvik/phmmcore/dpstatus"
)

// Anchor pins one domain's alignment to pass through model position K
// at sequence position I.
type Anchor struct {
	I, K int
}

// AnchorSet is an ordered, strictly-increasing-by-I list of anchors,
// one per domain.
type AnchorSet struct {
	anchors []Anchor
}

// New validates anchors (strictly increasing I) and returns an
// AnchorSet. An empty slice is legal and denotes zero domains; with no
// anchor, E and C are never reached, so ASC Forward returns -Inf.
func New(anchors []Anchor) (*AnchorSet, error) {
	cp := make([]Anchor, len(anchors))
	copy(cp, anchors)
	if !sort.SliceIsSorted(cp, func(i, j int) bool { return cp[i].I < cp[j].I }) {
		return nil, fmt.Errorf("%w: anchors must be strictly increasing by I", dpstatus.ErrInvalidArgument)
	}
	for i := 1; i < len(cp); i++ {
		if cp[i].I == cp[i-1].I {
			return nil, fmt.Errorf("%w: duplicate anchor row %d", dpstatus.ErrInvalidArgument, cp[i].I)
		}
		if cp[i].K < cp[i-1].K {
			return nil, fmt.Errorf("%w: anchor K must be non-decreasing, got %d after %d", dpstatus.ErrInvalidArgument, cp[i].K, cp[i-1].K)
		}
	}
	return &AnchorSet{anchors: cp}, nil
}

// D returns the number of domains (anchors).
func (a *AnchorSet) D() int { return len(a.anchors) }

// At returns the d'th anchor, d in [0, D).
func (a *AnchorSet) At(d int) Anchor { return a.anchors[d] }

// validateAgainst checks every anchor's K lies in [1,m].
func (a *AnchorSet) validateAgainst(m int) error {
	for _, anc := range a.anchors {
		if anc.K < 1 || anc.K > m {
			return fmt.Errorf("%w: anchor K=%d out of range [1,%d]", dpstatus.ErrInvalidArgument, anc.K, m)
		}
	}
	return nil
}

// upDomain returns the index of the domain whose UP sector row i
// belongs to (the smallest d with anchors[d].I > i), or ok=false if i
// is at or past the last anchor's row.
func (a *AnchorSet) upDomain(i int) (d int, ok bool) {
	for idx, anc := range a.anchors {
		if anc.I > i {
			return idx, true
		}
	}
	return 0, false
}

// downDomain returns the index of the domain whose DOWN sector row i
// belongs to (the largest d with anchors[d].I <= i), or ok=false if i
// precedes the first anchor's row.
func (a *AnchorSet) downDomain(i int) (d int, ok bool) {
	res := -1
	for idx, anc := range a.anchors {
		if anc.I <= i {
			res = idx
		} else {
			break
		}
	}
	if res == -1 {
		return 0, false
	}
	return res, true
}
