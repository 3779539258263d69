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

// AlignedSize rounds size up to the next multiple of Width[T](), so that a
// striped row buffer can be carved into whole vectors with no partial
// final lane.
func AlignedSize[T Elem](size int) int {
	v := Width[T]()
	if size%v == 0 {
		return size
	}
	return (size/v + 1) * v
}

// IsAligned reports whether size is already a multiple of Width[T]().
func IsAligned[T Elem](size int) bool {
	return size%Width[T]() == 0
}
