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

// Package dpstatus defines the status codes every DP routine in this
// repository returns, and the sentinel errors those statuses wrap.
package dpstatus

import "errors"

// Status is the outcome of a single DP routine call.
type Status int

const (
	// OK indicates a successful call; any accompanying score/trace is valid.
	OK Status = iota
	// MemoryError indicates an allocation failure; the caller must discard
	// the affected matrix.
	MemoryError
	// ArithmeticFailure indicates a degenerate computation (e.g. every path
	// has zero probability) that is not itself an error but that callers
	// distinguish from OK.
	ArithmeticFailure
	// TracebackFailure indicates traceback could not reach the start state,
	// or hit a cell with no near-equal source; the trace is left empty.
	TracebackFailure
	// FilterNoResult indicates a filter stage's bias/ceiling pre-flight
	// check failed; the caller should skip this filter and use a heavier
	// stage instead.
	FilterNoResult
	// FilterOverflow indicates a filter's saturating arithmetic overflowed
	// mid-computation; treated as "promote, score unknown".
	FilterOverflow
	// InvalidArgument indicates a caller contract violation (mismatched
	// matrix kind, zero-length sequence where one isn't permitted, an
	// anchor list that isn't sorted).
	InvalidArgument
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case MemoryError:
		return "memory-error"
	case ArithmeticFailure:
		return "arithmetic-failure"
	case TracebackFailure:
		return "traceback-failure"
	case FilterNoResult:
		return "filter-no-result"
	case FilterOverflow:
		return "filter-overflow"
	case InvalidArgument:
		return "invalid-argument"
	default:
		return "unknown-status"
	}
}

// Sentinel errors, one per non-OK Status, for errors.Is comparisons.
// Diagnostic detail is attached with fmt.Errorf's %w at the call site
// (traceback-inconsistency messages in particular carry the offending
// cell coordinates).
var (
	ErrMemory          = errors.New("dpstatus: memory error")
	ErrArithmeticDegen = errors.New("dpstatus: arithmetic degenerate")
	ErrTraceback       = errors.New("dpstatus: traceback failure")
	ErrFilterNoResult  = errors.New("dpstatus: filter no-result")
	ErrFilterOverflow  = errors.New("dpstatus: filter overflow")
	ErrInvalidArgument = errors.New("dpstatus: invalid argument")
)

// FromError maps one of the sentinel errors above (possibly wrapped) back
// to its Status, for callers that receive an error and need the status
// code it corresponds to. Returns OK, false if err does not wrap a known
// sentinel.
func FromError(err error) (Status, bool) {
	switch {
	case errors.Is(err, ErrMemory):
		return MemoryError, true
	case errors.Is(err, ErrArithmeticDegen):
		return ArithmeticFailure, true
	case errors.Is(err, ErrTraceback):
		return TracebackFailure, true
	case errors.Is(err, ErrFilterNoResult):
		return FilterNoResult, true
	case errors.Is(err, ErrFilterOverflow):
		return FilterOverflow, true
	case errors.Is(err, ErrInvalidArgument):
		return InvalidArgument, true
	default:
		return OK, false
	}
}
