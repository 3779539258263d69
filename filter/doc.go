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

// Package filter implements the SSV/MSV/Viterbi acceleration filters:
// 8-bit and 16-bit saturating fixed-point scans over an
// ungapped model (SSV/MSV) or the full local/glocal, multihit state
// machine (Viterbi), each a
// cheap pre-screen that either promotes a sequence to the full DP core
// or rejects it outright. Only a filter's promote/reject/overflow
// decision matters downstream, not its numerical accuracy. SSV and MSV
// make one vectorized pass over lane.Vec per row; Viterbi is a
// cell-by-cell replica of the reference recursion over the same striped
// row layout.
//
// The filters own no DP memory: each stage reinterprets the caller's
// checkpoint.Matrix allocation (via its wide-row view) as int8 or
// int16 lanes and carves its row buffers from the front of it, so the
// byte-width MSV rows, the int16 Viterbi rows, and the float32
// checkpointed Forward store are three views over one allocation.
package filter
