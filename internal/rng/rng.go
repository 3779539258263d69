// Package rng provides the deterministic random source stochastic
// traceback draws from.
package rng

import "math/rand"

// Source is a minimal deterministic random source: Float64 for the
// uniform draw stochastic traceback's log-normalise-then-sample step
// needs. Modeled on *rand.Rand so callers can pass one directly.
type Source interface {
	Float64() float64
}

// New wraps math/rand's generator with a fixed seed, giving the same
// seed the same draw sequence on every platform (no time-based source
// is ever used implicitly).
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
