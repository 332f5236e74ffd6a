// Package hash provides seeded hashing over integer coordinate tuples.
//
// Two coordinates with identical component sequences hash identically under
// the same seed, regardless of which buffer backs them. The mix is a
// multiply/xor-shift construction; it is not cryptographic, it only needs to
// spread nearby grid coordinates across the full 64-bit range so that table
// probing stays short.
package hash

const (
	offset64 = 0xcbf29ce484222325
	prime64  = 0x100000001b3

	mix1 = 0xff51afd7ed558ccd
	mix2 = 0xc4ceb9fe1a85ec53
)

// Sum64 returns the seeded hash of the coordinate components.
func Sum64(seed uint64, coord []int32) uint64 {
	h := seed ^ offset64
	for _, c := range coord {
		h ^= uint64(uint32(c))
		h *= prime64
	}
	// Finalizer: full avalanche so the low bits used for slot selection
	// depend on every component.
	h ^= h >> 33
	h *= mix1
	h ^= h >> 33
	h *= mix2
	h ^= h >> 33
	return h
}

// Equal reports whether two coordinates have identical components.
func Equal(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
