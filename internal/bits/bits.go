// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// Split32 decomposes the 64-bit product n*bound into its 32-bit halves,
// such that n*bound == hi*2^32 + lo with 0 <= lo < 2^32.
//
// hi is (n*bound) / 2^32 and lo is (n*bound) % 2^32. For n uniform over
// the full 32-bit range, hi is the multiply-shift candidate in [0, bound)
// and lo decides acceptance in the rejection step.
// Precondition: bound != 0 (callers validate; this helper never re-checks).
func Split32(n, bound uint32) (hi, lo uint32) {
	return bits.Mul32(n, bound)
}

// Threshold32 computes 2^32 mod bound without materializing 2^32 in a
// 32-bit type. Since 2^32 ≡ 0 (mod 2^32), the uint32 wraparound negation
// -bound equals 2^32 - bound, so (-bound) % bound == 2^32 % bound for any
// nonzero bound. The result is 0 exactly when bound is a power of two.
// Precondition: bound != 0.
func Threshold32(bound uint32) uint32 {
	return -bound % bound
}
