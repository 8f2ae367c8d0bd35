package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	// Records whose distance from the truncation bucket centre falls in
	// (nearMissLow, nearMissHigh) are the interesting ones when tuning.
	nearMissLow  = 0.48
	nearMissHigh = 1.25

	searchSteps = 4000
	searchStep  = 0.05
)

// residual is the predicted channel mean minus the observed value.
func residual(pal *Palette, rec EquationRecord, ch int) float64 {
	return pal.Mean(ch, rec.Tuple[:]) - float64(rec.Color[ch])
}

// bucketDistance is how far the prediction is from the middle of the
// integer the observed value was truncated from.
func bucketDistance(pal *Palette, rec EquationRecord, ch int) float64 {
	return math.Abs(residual(pal, rec, ch) - 0.5)
}

// Inspect prints the records whose channel ch is a near miss under pal,
// prefixed with their index in recs and followed by the residual.
func Inspect(w io.Writer, recs []EquationRecord, pal *Palette, ch int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, pal)
	for i, rec := range recs {
		d := bucketDistance(pal, rec, ch)
		if d > nearMissLow && d < nearMissHigh {
			fmt.Fprintf(bw, "%d %s (%.6f)\n", i, rec, residual(pal, rec, ch))
		}
	}
	return bw.Flush()
}

// Search prints the inputs x on a 0.05 grid at which channel ch lands within
// 0.001 of a multiple of 1/20. Those points pin down the curve when compared
// with observed colours.
func Search(w io.Writer, pal *Palette, ch int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, pal)
	c := pal[ch]
	for i := range searchSteps {
		x := searchStep * float64(i)
		y := c.Evaluate(x)
		y20 := y * 20
		if math.Abs(y20-math.Round(y20)) < .001 {
			fmt.Fprintf(bw, "%s %s\n", formatFloat(x), formatFloat(y))
		}
	}
	return bw.Flush()
}

// WriteOctave emits the records that fit pal within 1.25 on every channel
// as Octave globals POINTS, WEIGHTS and X0..X2.
func WriteOctave(w io.Writer, recs []EquationRecord, pal *Palette) error {
	var kept []EquationRecord
	for _, rec := range recs {
		maxDiff := 0.0
		for ch := range pal {
			maxDiff = max(maxDiff, bucketDistance(pal, rec, ch))
		}
		if maxDiff > nearMissHigh {
			continue
		}
		kept = append(kept, rec)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "global POINTS = [")
	for _, rec := range kept {
		fmt.Fprintln(bw, joinInts(len(rec.Tuple), " ", func(i int) int { return int(rec.Tuple[i]) })+";")
	}
	fmt.Fprintln(bw, "]';")

	fmt.Fprintln(bw, "\nglobal WEIGHTS = [")
	fmt.Fprintln(bw, joinInts(len(kept), ";\n", func(i int) int { return kept[i].Weight }))
	fmt.Fprintln(bw, "]';")

	for ch := range pal {
		fmt.Fprintf(bw, "\nglobal X%d = [\n", ch)
		fmt.Fprintln(bw, joinInts(len(kept), ";\n", func(i int) int { return int(kept[i].Color[ch]) }))
		fmt.Fprintln(bw, "]';")
	}
	return bw.Flush()
}

func joinInts(n int, sep string, at func(int) int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = strconv.Itoa(at(i))
	}
	return strings.Join(parts, sep)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
