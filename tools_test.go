package main

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	zeroTuple = CanonicalTuple{}
	tuple16   = CanonicalTuple{16, 16, 16, 16, 16, 16, 16, 16, 16}
)

func TestInspect(t *testing.T) {
	pal := DefaultConfig().Palette()
	recs := []EquationRecord{
		{Tuple: tuple16, Color: RGB{0, 8, 55}, Weight: 9},
		{Tuple: tuple16, Color: RGB{1, 8, 55}, Weight: 4},
		{Tuple: zeroTuple, Color: RGB{0, 0, 0}, Weight: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, Inspect(&buf, recs, pal, 0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, pal.String(), lines[0])
	assert.Equal(t, "0 9 16 16 16 16 16 16 16 16 16 -> 0 8 55 (0.000000)", lines[1])
	assert.Equal(t, "2 2 0 0 0 0 0 0 0 0 0 -> 0 0 0 (0.000000)", lines[2])
}

func TestSearch(t *testing.T) {
	pal := DefaultConfig().Palette()
	var buf bytes.Buffer
	require.NoError(t, Search(&buf, pal, 2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, pal.String(), lines[0])
	assert.Equal(t, "0 0", lines[1])

	for _, line := range lines[1:] {
		f := strings.Fields(line)
		require.Len(t, f, 2, line)
		x, err := strconv.ParseFloat(f[0], 64)
		require.NoError(t, err)
		y, err := strconv.ParseFloat(f[1], 64)
		require.NoError(t, err)
		assert.Less(t, x, searchStep*searchSteps)
		assert.Equal(t, pal[2].Evaluate(x), y)
		assert.Less(t, math.Abs(20*y-math.Round(20*y)), .001, line)
	}
}

func TestWriteOctave(t *testing.T) {
	pal := DefaultConfig().Palette()
	recs := []EquationRecord{
		{Tuple: zeroTuple, Color: RGB{0, 0, 0}, Weight: 5},
		{Tuple: tuple16, Color: RGB{200, 200, 200}, Weight: 4},
		{Tuple: tuple16, Color: RGB{0, 8, 55}, Weight: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOctave(&buf, recs, pal))

	want := `global POINTS = [
0 0 0 0 0 0 0 0 0;
16 16 16 16 16 16 16 16 16;
]';

global WEIGHTS = [
5;
3
]';

global X0 = [
0;
0
]';

global X1 = [
0;
8
]';

global X2 = [
0;
55
]';
`
	assert.Equal(t, want, buf.String())
}

func TestWriteOctave_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOctave(&buf, nil, DefaultConfig().Palette()))
	assert.True(t, strings.HasPrefix(buf.String(), "global POINTS = [\n]';\n"))
}

func TestResidual(t *testing.T) {
	pal := DefaultConfig().Palette()
	rec := EquationRecord{Tuple: zeroTuple, Color: RGB{3, 4, 5}}
	assert.Equal(t, -3.0, residual(pal, rec, 0))
	assert.Equal(t, 5.5, bucketDistance(pal, rec, 2))
}
