package main

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapse(t *testing.T) {
	assert.Equal(t, RawSample(0), collapse(0))
	for v := RawSample(1); v < 16; v++ {
		assert.Equal(t, RawSample(16), collapse(v), "value %d", v)
	}
	for _, v := range []RawSample{16, 17, 255, 1000, maxRawSample} {
		assert.Equal(t, v, collapse(v))
	}
}

func TestCanonicalize(t *testing.T) {
	got := Canonicalize(SuperBlock{40, 3, 0, 16, 15, 900, 1, 17, 0})
	assert.Equal(t, CanonicalTuple{0, 0, 16, 16, 16, 16, 17, 40, 900}, got)

	assert.Equal(t, CanonicalTuple{}, Canonicalize(SuperBlock{}))
}

func TestCanonicalize_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		var sb SuperBlock
		for i := range sb {
			sb[i] = RawSample(rng.IntN(40))
		}
		want := Canonicalize(sb)
		assert.True(t, slices.IsSorted(want[:]))

		for range 10 {
			perm := sb
			rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
			assert.Equal(t, want, Canonicalize(perm))
		}
	}
}

func TestCanonicalize_LowCountsEquivalent(t *testing.T) {
	a := Canonicalize(SuperBlock{1, 2, 3, 4, 5, 6, 7, 8, 9})
	b := Canonicalize(SuperBlock{16, 16, 16, 16, 16, 16, 16, 16, 16})
	assert.Equal(t, a, b)
}

func TestCanonicalTuple_Compare(t *testing.T) {
	a := CanonicalTuple{0, 0, 0, 0, 0, 0, 0, 0, 16}
	b := CanonicalTuple{0, 0, 0, 0, 0, 0, 0, 0, 17}
	c := CanonicalTuple{0, 0, 0, 0, 0, 0, 0, 16, 16}
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Negative(t, b.Compare(c))
	assert.Zero(t, a.Compare(a))
}
