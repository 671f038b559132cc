// Package ordered holds the generic sequence-query helpers the policy layer
// runs against the registry, e.g. membership tests against a banned-crate
// list. The key type never has to match the element type: a comparison or
// equality function bridges the two, so callers can probe a slice of full
// records with a lightweight key.
package ordered

import "slices"

// BinarySearch locates key in s, which must already be sorted consistently
// with cmp; the result is unspecified otherwise (the sorting invariant is
// the caller's responsibility and is not validated). It returns the position
// of a match, or the position where key would be inserted, plus whether a
// match was found. cmp reports element-vs-key ordering the usual way:
// negative, zero, positive.
func BinarySearch[T, Q any](s []T, key Q, cmp func(T, Q) int) (int, bool) {
	return slices.BinarySearchFunc(s, key, cmp)
}

// Contains reports whether any element of s matches key under eq. It scans
// linearly and needs no ordering, so it works on unsorted sequences.
func Contains[T, Q any](s []T, key Q, eq func(T, Q) bool) bool {
	for _, e := range s {
		if eq(e, key) {
			return true
		}
	}
	return false
}
