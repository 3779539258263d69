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

// Package null supplies the minimal background (null) model a caller
// needs to compute a log-odds score's denominator. Building and
// calibrating a null model is out of this core's scope, but a
// random-sequence regression needs some null score to subtract
// against, so this
// package offers a thin, fixed-frequency scorer rather than a
// calibration pipeline.
package null

import (
	stdmath "math"

	"github.com/nilsvik/phmmcore/dnaseq"
	"github.com/nilsvik/phmmcore/dpstatus"
)

// Model is an i.i.d. residue-background model plus a length-based
// null2 geometric term, scored in nats to match every other score in
// this repository.
type Model struct {
	logFreq []float32 // length K, log(P(x)) per symbol
	logP1   float32   // log(p1), the per-residue "stay in flank" probability
}

// NewUniform builds a Model with a uniform background distribution
// over k symbols: log(1/k) per residue. p1 is the flank-loop
// probability in log space (strictly negative). This is the simplest
// fixed-frequency null a caller can reach for when no organism- or
// alphabet-specific background has been calibrated.
func NewUniform(k int, p1 float32) (*Model, error) {
	if k <= 0 || p1 >= 0 {
		return nil, dpstatus.ErrInvalidArgument
	}
	freq := make([]float32, k)
	logp := float32(-stdmath.Log(float64(k)))
	for i := range freq {
		freq[i] = logp
	}
	return &Model{logFreq: freq, logP1: p1}, nil
}

// NewFromFrequencies builds a Model from caller-supplied per-symbol
// background probabilities, which must sum to ~1.
func NewFromFrequencies(freqs []float32, p1 float32) (*Model, error) {
	if len(freqs) == 0 || p1 >= 0 {
		return nil, dpstatus.ErrInvalidArgument
	}
	var sum float64
	logFreq := make([]float32, len(freqs))
	for i, f := range freqs {
		if f <= 0 {
			return nil, dpstatus.ErrInvalidArgument
		}
		sum += float64(f)
		logFreq[i] = float32(stdmath.Log(float64(f)))
	}
	if stdmath.Abs(sum-1) > 1e-3 {
		return nil, dpstatus.ErrInvalidArgument
	}
	return &Model{logFreq: logFreq, logP1: p1}, nil
}

// Score returns the null model's total log-probability of emitting seq:
// L independent residue draws from the background frequencies, plus
// the geometric length term log(p1)*L + log(1-p1), in nats.
func (m *Model) Score(seq dnaseq.Sequence) float32 {
	l := seq.L()
	var sum float32
	for i := 1; i <= l; i++ {
		sum += m.logFreq[seq.Residue(i)]
	}
	return sum + float32(l)*m.logP1 + log1mExp(m.logP1)
}

// log1mExp returns log(1 - e^x) for x <= 0, the standard numerically
// stable form (avoids cancellation when e^x is close to 1).
func log1mExp(x float32) float32 {
	if x > -0.693 {
		return float32(stdmath.Log(-stdmath.Expm1(float64(x))))
	}
	return float32(stdmath.Log1p(-stdmath.Exp(float64(x))))
}

// Bits converts a nats log-odds score to bits: bits = nats / ln 2.
func Bits(nats float32) float32 {
	return nats / float32(stdmath.Ln2)
}
