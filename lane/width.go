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

package lane

import (
	"os"
	"strconv"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// DispatchLevel names the lane width this process picked at startup.
type DispatchLevel int

const (
	// DispatchScalar processes one element per "vector" (V=1).
	DispatchScalar DispatchLevel = iota
	// DispatchSSE2 is the 128-bit x86-64/ARM NEON baseline.
	DispatchSSE2
	// DispatchAVX2 is 256-bit x86 SIMD.
	DispatchAVX2
	// DispatchAVX512 is 512-bit x86 SIMD.
	DispatchAVX512
)

func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2/neon"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// currentLevel and currentWidth are set once by detectWidth, called from
// init(). currentWidth is in bytes. Both this width selection and the
// logsum table must be fixed before any DP routine runs and stay
// read-only thereafter, so the same table can be handed to every worker
// in package pipeline without synchronization.
var (
	currentLevel DispatchLevel
	currentWidth int
)

func init() {
	detectWidth()
}

func detectWidth() {
	if noSIMDEnv() {
		currentLevel = DispatchScalar
		currentWidth = 4 // one float32 lane; Q falls back to M vectors of one position each
		return
	}
	switch {
	case cpu.X86.HasAVX512F:
		currentLevel = DispatchAVX512
		currentWidth = 64
	case cpu.X86.HasAVX2:
		currentLevel = DispatchAVX2
		currentWidth = 32
	case cpu.X86.HasSSE2, cpu.ARM64.HasASIMD:
		currentLevel = DispatchSSE2
		currentWidth = 16
	default:
		currentLevel = DispatchScalar
		currentWidth = 4
	}
}

// noSIMDEnv lets tests and callers force the scalar width deterministically
// (e.g. to pin V=1 so a striping test doesn't depend on the host CPU).
func noSIMDEnv() bool {
	v := os.Getenv("PHMMCORE_NO_SIMD")
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// CurrentLevel returns the lane width level detected for this process.
func CurrentLevel() DispatchLevel { return currentLevel }

// CurrentWidth returns the current lane width in bytes.
func CurrentWidth() int { return currentWidth }

// Width returns V, the number of lanes of type T that fit in the current
// SIMD width.
func Width[T Elem]() int {
	var zero T
	sz := int(unsafe.Sizeof(zero))
	if sz == 0 {
		return 1
	}
	v := currentWidth / sz
	if v < 1 {
		return 1
	}
	return v
}
