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

import stdmath "math"

// scale8 and scale16 convert a nats log-odds score into the fixed-point
// units the 8-bit (SSV/MSV) and 16-bit (Viterbi) filter lanes operate
// in. 8-bit lanes get a coarse scale (typical per-residue scores are a
// handful of bits, comfortably inside [-128,127] at this scale); 16-bit
// lanes get a finer one since int16's wider range affords it. Neither
// value needs to reproduce any other tool's quantization bit-for-bit;
// both just need to keep ordinary profile scores
// well clear of the saturation ceiling while still saturating on the
// pathological inputs the ceiling check below is built to catch.
const (
	scale8  = float32(3.0)
	scale16 = float32(400.0)
)

const (
	lo8, hi8   = -128, 127
	lo16, hi16 = -32768, 32767
)

// quantize8 converts a nats score to its saturating int8 representation.
func quantize8(score float32) int8 {
	return int8(clampRound(score, scale8, lo8, hi8))
}

// quantize16 converts a nats score to its saturating int16 representation.
func quantize16(score float32) int16 {
	return int16(clampRound(score, scale16, lo16, hi16))
}

func clampRound(score, scale float32, lo, hi int32) int32 {
	if stdmath.IsInf(float64(score), -1) {
		return int32(lo)
	}
	v := int32(stdmath.Round(float64(score * scale)))
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// preflightCeiling reports whether the sum of the largest plausible
// per-row contributions (bias, begin, end, and loop transitions, each
// already quantized) would itself sit at or past the saturation
// ceiling before a single residue is scored; such a filter has no
// usable headroom, and the caller should skip it for a heavier stage.
// Returns true when the filter should proceed, false
// when it should report FilterNoResult.
func preflightCeiling(sum int32, hi int32) bool {
	return sum < hi
}
