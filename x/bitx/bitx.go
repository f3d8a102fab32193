package bitx

import "golang.org/x/exp/constraints"

// Bit returns a value with only bit n set.
func Bit[T constraints.Unsigned](n int) T {
	return T(1) << n
}

// Has reports whether v has every bit of mask set.
func Has[T constraints.Unsigned](v, mask T) bool {
	return v&mask == mask
}

// Insert replaces the mask-selected bits of v with bits (already in
// position), leaving everything outside mask untouched.
func Insert[T constraints.Unsigned](v, mask, bits T) T {
	return (v &^ mask) | (bits & mask)
}
