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

package filter

import (
	"fmt"
	"unsafe"

	"github.com/nilsvik/phmmcore/checkpoint"
	"github.com/nilsvik/phmmcore/dpstatus"
)

// The integer filters do not allocate their own DP rows: they
// reinterpret the checkpoint matrix's flat float32 allocation as int8
// or int16 lanes and carve their row buffers out of the front of it.
// The same allocation is therefore, by turns, the MSV/SSV byte rows,
// the Viterbi filter's int16 rows, and the checkpointed float32
// Forward/Backward store; only one stage touches it at a time.

// wide8 returns the first n int8 lanes of mx's allocation, or an error
// when the allocation cannot hold them.
func wide8(mx *checkpoint.Matrix, n int) ([]int8, error) {
	w := mx.AsWideRow()
	if len(w)*4 < n {
		return nil, fmt.Errorf("%w: filter workspace needs %d bytes, matrix allocation holds %d", dpstatus.ErrMemory, n, len(w)*4)
	}
	return unsafe.Slice((*int8)(unsafe.Pointer(&w[0])), n), nil
}

// wide16 returns the first n int16 lanes of mx's allocation, or an
// error when the allocation cannot hold them.
func wide16(mx *checkpoint.Matrix, n int) ([]int16, error) {
	w := mx.AsWideRow()
	if len(w)*2 < n {
		return nil, fmt.Errorf("%w: filter workspace needs %d int16s, matrix allocation holds %d", dpstatus.ErrMemory, n, len(w)*2)
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&w[0])), n), nil
}
