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

package dnaseq

import "testing"

func TestDigitizeRoundTrip(t *testing.T) {
	alpha := NewAlphabet([]byte("ACGT"))
	seq, err := Digitize([]byte("AAGT"), alpha, "poly")
	if err != nil {
		t.Fatalf("Digitize: unexpected error: %v", err)
	}
	if seq.L() != 4 {
		t.Fatalf("L(): got %d, want 4", seq.L())
	}
	if seq.Residue(0) != Sentinel || seq.Residue(5) != Sentinel {
		t.Errorf("sentinels not set: residue(0)=%d residue(5)=%d", seq.Residue(0), seq.Residue(5))
	}
	expected := []byte{0, 0, 2, 3} // A A G T
	for i, want := range expected {
		if got := seq.Residue(i + 1); got != want {
			t.Errorf("Residue(%d): got %d, want %d", i+1, got, want)
		}
	}
	if seq.Name() != "poly" {
		t.Errorf("Name(): got %q, want %q", seq.Name(), "poly")
	}
}

func TestDigitizeRejectsUnknownSymbol(t *testing.T) {
	alpha := NewAlphabet([]byte("ACGT"))
	_, err := Digitize([]byte("ACGZ"), alpha, "")
	if err == nil {
		t.Fatalf("Digitize: expected an error for an out-of-alphabet byte, got none")
	}
}

func TestAlphabetCode(t *testing.T) {
	alpha := NewAlphabet([]byte("ACGT"))
	if alpha.K() != 4 {
		t.Errorf("K(): got %d, want 4", alpha.K())
	}
	code, ok := alpha.Code('G')
	if !ok || code != 2 {
		t.Errorf("Code('G'): got (%d,%v), want (2,true)", code, ok)
	}
	if _, ok := alpha.Code('Z'); ok {
		t.Errorf("Code('Z'): got ok=true, want false")
	}
	if got := alpha.Symbol(2); got != 'G' {
		t.Errorf("Symbol(2): got %q, want 'G'", got)
	}
}
