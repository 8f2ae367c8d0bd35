package main

import "slices"

// CanonicalTuple is a super block with low counts collapsed and the values
// sorted, so that blocks differing only in sample order compare equal.
type CanonicalTuple [blockSize * blockSize]RawSample

// collapse maps counts in [1, 15] to 16. Zero and counts of 16 or more are
// returned unchanged.
func collapse(v RawSample) RawSample {
	if v > 0 && v < minCount {
		return minCount
	}
	return v
}

// Canonicalize returns the canonical form of sb.
func Canonicalize(sb SuperBlock) CanonicalTuple {
	t := CanonicalTuple(sb)
	for i, v := range t {
		t[i] = collapse(v)
	}
	slices.Sort(t[:])
	return t
}

// Compare orders tuples lexicographically.
func (t CanonicalTuple) Compare(u CanonicalTuple) int {
	return slices.Compare(t[:], u[:])
}
