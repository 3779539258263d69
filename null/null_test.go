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

package null

import (
	stdmath "math"
	"testing"

	"github.com/nilsvik/phmmcore/dnaseq"
)

func TestNewUniformRejectsZeroAlphabet(t *testing.T) {
	if _, err := NewUniform(0, -0.1); err == nil {
		t.Fatal("expected error for K=0")
	}
}

func TestNewFromFrequenciesRejectsBadSum(t *testing.T) {
	if _, err := NewFromFrequencies([]float32{0.1, 0.1}, -0.1); err == nil {
		t.Fatal("expected error for frequencies not summing to 1")
	}
}

func TestUniformScoreMatchesAnalytic(t *testing.T) {
	alphabet := dnaseq.NewAlphabet([]byte("ACGT"))
	m, err := NewUniform(4, -0.1)
	if err != nil {
		t.Fatal(err)
	}
	seq, err := dnaseq.Digitize([]byte("ACGTACGT"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	got := m.Score(seq)
	want := float32(8)*float32(-stdmath.Log(4)) + 8*float32(-0.1) + log1mExp(-0.1)
	if stdmath.Abs(float64(got-want)) > 1e-4 {
		t.Errorf("Score() = %v, want %v", got, want)
	}
}

func TestBitsConversion(t *testing.T) {
	got := Bits(float32(stdmath.Ln2))
	if stdmath.Abs(float64(got-1)) > 1e-5 {
		t.Errorf("Bits(ln2) = %v, want 1", got)
	}
}

func TestScoreNonIncreasingWithLowerP1(t *testing.T) {
	alphabet := dnaseq.NewAlphabet([]byte("AB"))
	seq, err := dnaseq.Digitize([]byte("ABAB"), alphabet, "")
	if err != nil {
		t.Fatal(err)
	}
	// The length term L*log(p1) + log(1-p1) rises with p1 only while
	// p1 < L/(L+1), i.e. below 0.8 for L=4; both p1 values stay there.
	high, _ := NewUniform(2, -0.25)
	low, _ := NewUniform(2, -1.0)
	if high.Score(seq) <= low.Score(seq) {
		t.Errorf("expected higher p1 (below L/(L+1)) to score higher: high=%v low=%v", high.Score(seq), low.Score(seq))
	}
}
