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

// TestWidthScalarFallback pins the process to the scalar dispatch level so
// the test doesn't depend on the host CPU's feature bits.
func TestWidthScalarFallback(t *testing.T) {
	t.Setenv("PHMMCORE_NO_SIMD", "1")
	detectWidth()
	defer func() {
		t.Setenv("PHMMCORE_NO_SIMD", "")
		detectWidth()
	}()

	if CurrentLevel() != DispatchScalar {
		t.Errorf("CurrentLevel: got %v, want %v", CurrentLevel(), DispatchScalar)
	}
	if got := Width[float32](); got != 1 {
		t.Errorf("Width[float32] under forced scalar: got %d, want 1", got)
	}
}

func TestDispatchLevelString(t *testing.T) {
	cases := []struct {
		level DispatchLevel
		want  string
	}{
		{DispatchScalar, "scalar"},
		{DispatchSSE2, "sse2/neon"},
		{DispatchAVX2, "avx2"},
		{DispatchAVX512, "avx512"},
	}
	for _, c := range cases {
		if got := c.level.String(); got != c.want {
			t.Errorf("DispatchLevel(%d).String(): got %q, want %q", c.level, got, c.want)
		}
	}
}

func TestWidthIsPositive(t *testing.T) {
	if Width[float32]() < 1 {
		t.Errorf("Width[float32]: got %d, want >= 1", Width[float32]())
	}
	if Width[int8]() < 1 {
		t.Errorf("Width[int8]: got %d, want >= 1", Width[int8]())
	}
}
