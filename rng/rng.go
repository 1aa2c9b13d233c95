// Package rng provides the deterministic random stream threaded through every
// formation call.
//
// Goals:
//   - Determinism: same seed and same call sequence => identical output.
//   - Encapsulation: no package-level or time-based sources; callers own the stream.
//   - Independence: Derive yields decorrelated child streams for parallel attempts.
//
// Concurrency:
//   - A Stream is NOT goroutine-safe. Give each goroutine its own (see Derive).
package rng

import (
	"math/rand"

	"github.com/cockroachdb/errors"

	"github.com/katalvlaran/synthpop/demography"
)

// DefaultSeed is used when callers pass seed == 0.
const DefaultSeed int64 = 1

// ErrEmpty is returned by Pick on an empty slice.
var ErrEmpty = errors.New("rng: empty selection")

// Stream is a seeded pseudo-random source.
type Stream struct {
	seed int64
	r    *rand.Rand
}

// New returns a stream seeded with seed (0 => DefaultSeed).
//
// Complexity: O(1).
func New(seed int64) *Stream {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Stream{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// Seed returns the effective seed of the stream.
func (s *Stream) Seed() int64 { return s.seed }

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer so that neighbouring identifiers give unrelated seeds.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// DeriveSeed returns the seed Derive would use for the given base seed and
// stream id without consuming any randomness. Useful for reporting.
func DeriveSeed(base int64, stream uint64) int64 {
	if base == 0 {
		base = DefaultSeed
	}
	s := deriveSeed(base, stream)
	if s == 0 {
		s = DefaultSeed
	}
	return s
}

// Derive returns an independent stream identified by stream. It does not
// advance s, so the same (seed, stream) pair always yields the same child.
func (s *Stream) Derive(stream uint64) *Stream {
	return New(DeriveSeed(s.seed, stream))
}

// Intn returns a uniform int in [0, n). It panics if n <= 0, like math/rand.
func (s *Stream) Intn(n int) int { return s.r.Intn(n) }

// Float64 returns a uniform float in [0, 1).
func (s *Stream) Float64() float64 { return s.r.Float64() }

// TossCoin returns true with probability bias.
func (s *Stream) TossCoin(bias float64) bool { return s.r.Float64() < bias }

// Sex returns Male with probability maleProbability, Female otherwise.
func (s *Stream) Sex(maleProbability float64) demography.Sex {
	if s.r.Float64() < maleProbability {
		return demography.Male
	}
	return demography.Female
}

// Shuffle permutes xs in place with a Fisher-Yates pass driven by s.
// A nil stream uses a fresh DefaultSeed stream.
//
// Complexity: O(n) time, O(1) extra space.
func Shuffle[T any](s *Stream, xs []T) {
	if len(xs) <= 1 {
		return
	}
	if s == nil {
		s = New(0)
	}
	for i := len(xs) - 1; i > 0; i-- {
		j := s.r.Intn(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

// Pick returns a uniformly chosen element of xs without reordering it.
func Pick[T any](s *Stream, xs []T) (T, error) {
	var zero T
	if len(xs) == 0 {
		return zero, ErrEmpty
	}
	if s == nil {
		s = New(0)
	}
	return xs[s.r.Intn(len(xs))], nil
}
