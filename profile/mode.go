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

// Package profile holds the immutable Profile value object: the model's
// consensus positions, transition and emission scores, and alignment mode.
// A Profile is built once by Builder.Build and never mutated afterwards, so
// it may be shared by reference across worker-pool goroutines.
package profile

// Lane distinguishes the local and glocal alignment paths through a node.
type Lane int

const (
	Local Lane = iota
	Glocal
)

func (l Lane) String() string {
	if l == Glocal {
		return "glocal"
	}
	return "local"
}

// AlignMode describes which alignment lanes a profile permits.
type AlignMode int

const (
	// LocalOnly permits only the local lane; glocal-lane scores act as
	// pass-throughs or are unused.
	LocalOnly AlignMode = iota
	// GlocalOnly permits only the glocal lane.
	GlocalOnly
	// Dual permits both lanes.
	Dual
)

// Multiplicity describes how many domains a single sequence may contain.
type Multiplicity int

const (
	// Unihit permits at most one domain per sequence.
	Unihit Multiplicity = iota
	// Multihit permits any number of domains, expressed through the
	// J-transition distribution.
	Multihit
)

// LengthModel selects the target-length geometric distribution shape.
type LengthModel int

const (
	// LengthL is the ordinary length-L geometric length model.
	LengthL LengthModel = iota
	// LengthZero configures the profile for the unihit length-0 special
	// case used by the enumerable-profile tests.
	LengthZero
)
