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

// combiner folds a list of candidate log-odds values into one cell value.
// Viterbi and Forward share one recursion body (core.go) and differ only
// in which combiner they pass: maxCombine for Viterbi, sumCombine for
// Forward/Backward. Keeping one body means a fix to the recursion
// cannot apply to one algorithm and miss the other.
type combiner func(vals ...float32) float32

func maxCombine(vals ...float32) float32 {
	m := logsum.NegInf
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// sumCombine folds through logsum.Fast, the table-lookup path: a
// Forward/Backward fill calls it once per candidate per cell, which
// makes this the hottest log-space summation in the repository. The
// table self-initializes on first use; pipeline.New builds it eagerly
// before any worker goroutine starts.
func sumCombine(vals ...float32) float32 {
	acc := logsum.NegInf
	for _, v := range vals {
		acc = logsum.Fast(acc, v)
	}
	return acc
}
