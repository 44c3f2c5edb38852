package util

import "math/rand"

// RandInt64Range returns a random int64 in [min, max].
func RandInt64Range(r *rand.Rand, min int64, max int64) int64 {
	if max <= min {
		return min
	}
	return min + r.Int63n(max-min+1)
}

// RandUint64Range returns a random uint64 in [min, max].
func RandUint64Range(r *rand.Rand, min uint64, max uint64) uint64 {
	if max <= min {
		return min
	}
	return min + r.Uint64()%(max-min+1)
}

// RandFloat64Range returns a random float64 in [min, max).
func RandFloat64Range(r *rand.Rand, min float64, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}
