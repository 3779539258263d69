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

// XLoopMove holds a LOOP/MOVE transition pair, the shape shared by N, E,
// C and J's special-state transitions.
type XLoopMove struct {
	Loop float32
	Move float32
}

// XSC holds the special-state transition scores for N, E, C, J and B.
// B is not a LOOP/MOVE pair: it distributes entry probability between
// the local and glocal lanes.
type XSC struct {
	N XLoopMove
	E XLoopMove // Loop: E->J (another domain); Move: E->C (done)
	C XLoopMove
	J XLoopMove
	// B holds the lane split: ToLocal is xsc[B][0], ToGlocal is xsc[B][1].
	B struct {
		ToLocal  float32
		ToGlocal float32
	}
}
