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

// Package refdp implements the dense reference DP matrices and algorithms:
// Viterbi, Forward, Backward, posterior Decoding, gamma-centroid (MEG)
// alignment, and traceback. Every routine follows the same state-machine
// shape and recursion order.
package refdp

// Kind tags a Matrix with the calculation it is legal to hold, so a
// routine can reject a matrix built for a different purpose.
type Kind int

const (
	Fwd Kind = iota
	Bck
	Decoding
	Viterbi
	Alignment
	ASCFwdUp
	ASCFwdDown
	ASCBckUp
	ASCBckDown
	ASCDecodeUp
	ASCDecodeDown
)

func (k Kind) String() string {
	switch k {
	case Fwd:
		return "Fwd"
	case Bck:
		return "Bck"
	case Decoding:
		return "Decoding"
	case Viterbi:
		return "Viterbi"
	case Alignment:
		return "Alignment"
	case ASCFwdUp:
		return "ASC-Fwd-Up"
	case ASCFwdDown:
		return "ASC-Fwd-Down"
	case ASCBckUp:
		return "ASC-Bck-Up"
	case ASCBckDown:
		return "ASC-Bck-Down"
	case ASCDecodeUp:
		return "ASC-Decode-Up"
	case ASCDecodeDown:
		return "ASC-Decode-Down"
	default:
		return "unknown"
	}
}
