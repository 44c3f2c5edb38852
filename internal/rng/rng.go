// Package rng derives the deterministic random streams used throughout
// generation. Every component draws from a *rand.Rand constructed here, never
// from wall-clock time or OS entropy, so a base seed fully reproduces a run.
package rng

import "math/rand"

// Seed stream offsets. Each round gets a disjoint block of sub-seeds so that
// changing one knob (e.g. queries per round) does not shift the streams of
// unrelated components.
const (
	roundStride = 1000
	viewOffset  = 100
	queryOffset = 200
	tableStride = 100
)

// New returns a deterministic PRNG for the given seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// DatasetSeed returns the seed for table/data generation in a round.
func DatasetSeed(base int64, round int) int64 {
	return base + int64(round)*roundStride
}

// TableSeed returns the seed for the i-th table within a round.
func TableSeed(datasetSeed int64, i int) int64 {
	return datasetSeed + int64(i)*tableStride
}

// ViewSeed returns the seed for view generation in a round.
func ViewSeed(base int64, round int) int64 {
	return DatasetSeed(base, round) + viewOffset
}

// QuerySeed returns the seed for the i-th query iteration of a round.
func QuerySeed(base int64, round int, i int) int64 {
	return DatasetSeed(base, round) + queryOffset + int64(i)
}
