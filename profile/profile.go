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

package profile

// Profile is the immutable model a DP routine scores a sequence against.
// Every field is unexported; a Profile is only reachable through Builder,
// so that once Build returns, its scores cannot change underneath a
// worker-pool goroutine holding a shared reference.
type Profile struct {
	m    int
	k    int
	tsc  *TSC
	rsc  *RSC
	bsc  []float32 // length m+1, B->M_k entry score
	esc  []float32 // length m+1, M_k->E exit score
	xsc  XSC
	mode AlignMode
	mult Multiplicity
	len  LengthModel
	name string
}

// M returns the number of consensus positions.
func (p *Profile) M() int { return p.m }

// K returns the alphabet size.
func (p *Profile) K() int { return p.k }

// TSC returns the transition score table.
func (p *Profile) TSC() *TSC { return p.tsc }

// RSC returns the residue emission score table.
func (p *Profile) RSC() *RSC { return p.rsc }

// BSC returns the B->M_k begin score. Valid for k in [1,M].
func (p *Profile) BSC(k int) float32 { return p.bsc[k] }

// ESC returns the M_k->E exit score. Valid for k in [1,M].
func (p *Profile) ESC(k int) float32 { return p.esc[k] }

// XSC returns the special-state transition scores.
func (p *Profile) XSC() XSC { return p.xsc }

// Mode returns the alignment-lane mode (local-only/glocal-only/dual).
func (p *Profile) Mode() AlignMode { return p.mode }

// Multiplicity returns whether the profile is unihit or multihit.
func (p *Profile) Multiplicity() Multiplicity { return p.mult }

// LengthModel returns the target-length model in effect.
func (p *Profile) LengthModel() LengthModel { return p.len }

// Name returns the profile's (possibly empty) display name.
func (p *Profile) Name() string { return p.name }

// AllowsLocal reports whether the local lane may be used.
func (p *Profile) AllowsLocal() bool { return p.mode == LocalOnly || p.mode == Dual }

// AllowsGlocal reports whether the glocal lane may be used.
func (p *Profile) AllowsGlocal() bool { return p.mode == GlocalOnly || p.mode == Dual }
