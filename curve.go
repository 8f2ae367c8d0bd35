package main

import (
	"fmt"
	"math"
)

const (
	// curveTop is the asymptote every channel curve approaches from below.
	curveTop = 255.99

	// minCount is the smallest iteration count the curves can tell apart;
	// anything in [1, minCount) is evaluated as minCount.
	minCount = 16
)

// Curve is one channel's logistic transfer function:
//
//	y = A + (255.99 - A) / (1 + exp(M·(B - x)))
type Curve struct {
	A, M, B float64
}

// logistic returns 1/(1+exp(t)) without overflowing for large |t|.
func logistic(t float64) float64 {
	if t > 0 {
		e := math.Exp(-t)
		return e / (1 + e)
	}
	return 1 / (1 + math.Exp(t))
}

// Evaluate maps an iteration count (or a mean of counts) to a channel
// intensity. Zero means the sample never escaped and maps to 0 exactly.
func (c Curve) Evaluate(x float64) float64 {
	if x == 0 {
		return 0
	}
	if x < minCount {
		x = minCount
	}
	v := c.A + (curveTop-c.A)*logistic(c.M*(c.B-x))
	if v < 0 {
		return 0
	}
	return v
}

// Evaluate is the free-function form of Curve.Evaluate.
func Evaluate(a, m, b, x float64) float64 {
	return Curve{A: a, M: m, B: b}.Evaluate(x)
}

// AnchorCurve solves for A so that the curve with slope m and midpoint b
// passes through (x0, v0). x0 must be at least 16.
func AnchorCurve(m, b, x0, v0 float64) Curve {
	a := (v0-curveTop)*(1+math.Exp(m*(x0-b))) + curveTop
	return Curve{A: a, M: m, B: b}
}

func (c Curve) String() string {
	return fmt.Sprintf("[%g %g %g]", c.A, c.M, c.B)
}

// Palette holds one curve per output channel in R, G, B order. It is built
// once from a Config and never modified afterwards.
type Palette [3]Curve

// Channel returns the 8-bit value for the mean of vals under channel ch.
// Values above 255 are clamped; the reference curves never reach it.
func (p *Palette) Channel(ch int, vals []RawSample) uint8 {
	return clampChannel(p.Mean(ch, vals))
}

// Mean returns the unrounded per-channel mean of vals, as used by the
// fitting tools to compare against observed colours.
func (p *Palette) Mean(ch int, vals []RawSample) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	c := p[ch]
	for _, v := range vals {
		sum += c.Evaluate(float64(v))
	}
	return sum / float64(len(vals))
}

func (p *Palette) String() string {
	return fmt.Sprintf("[%v, %v, %v]", p[0], p[1], p[2])
}

// clampChannel truncates v to an 8-bit value. The range check happens on
// the float so that huge means do not wrap when converted.
func clampChannel(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
