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

import "testing"

func TestAlignedSizeAndIsAligned(t *testing.T) {
	t.Setenv("PHMMCORE_NO_SIMD", "1")
	detectWidth()
	defer func() {
		t.Setenv("PHMMCORE_NO_SIMD", "")
		detectWidth()
	}()

	// Under forced scalar, Width[float32]() == 1, so every size is aligned.
	if !IsAligned[float32](7) {
		t.Errorf("IsAligned(7) under V=1: got false, want true")
	}
	if got := AlignedSize[float32](7); got != 7 {
		t.Errorf("AlignedSize(7) under V=1: got %d, want 7", got)
	}
}
