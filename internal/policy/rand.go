package policy

import "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// NewRand returns a PCG source seeded deterministically from seed.
func NewRand(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
