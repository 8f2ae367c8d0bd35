package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// ErrNoData is returned when a fit has no informative records.
var ErrNoData = errors.New("no usable records")

// FitResult compares the anchored curve of one channel with the curve whose
// A best explains the dataset for the same M and B.
type FitResult struct {
	Channel  int
	Anchored Curve
	Fitted   Curve
	// RMSE is the weight-averaged error of each curve against the centre of
	// the observed value's truncation bucket.
	AnchoredRMSE float64
	FittedRMSE   float64
	Records      int
}

// FitChannel estimates A for channel ch by weighted least squares, keeping
// M and B from pal. For fixed M and B the channel mean is linear in A:
//
//	mean = A·Σ(1-σᵢ)/n + 255.99·Σσᵢ/n
//
// where the sums run over the non-zero samples of the tuple. The lower clamp
// at 0 is ignored while solving but applied when scoring.
func FitChannel(recs []EquationRecord, pal *Palette, ch int) (FitResult, error) {
	base := pal[ch]
	res := FitResult{Channel: ch, Anchored: base}

	var rows []EquationRecord
	for _, rec := range recs {
		if rec.Weight > 0 && slices.ContainsFunc(rec.Tuple[:], func(t RawSample) bool { return t != 0 }) {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return res, ErrNoData
	}

	a := mat.NewDense(len(rows), 1, nil)
	rhs := mat.NewVecDense(len(rows), nil)
	for k, rec := range rows {
		var u, v float64
		for _, t := range rec.Tuple {
			if t == 0 {
				continue
			}
			s := logistic(base.M * (base.B - math.Max(float64(t), minCount)))
			u += 1 - s
			v += curveTop * s
		}
		n := float64(len(rec.Tuple))
		sw := math.Sqrt(float64(rec.Weight))
		a.Set(k, 0, sw*u/n)
		rhs.SetVec(k, sw*(float64(rec.Color[ch])+0.5-v/n))
	}

	var x mat.VecDense
	if err := x.SolveVec(a, rhs); err != nil {
		return res, fmt.Errorf("channel %d: %w", ch, err)
	}

	res.Fitted = Curve{A: x.AtVec(0), M: base.M, B: base.B}
	res.Records = len(rows)
	res.AnchoredRMSE = weightedRMSE(rows, base, ch)
	res.FittedRMSE = weightedRMSE(rows, res.Fitted, ch)
	return res, nil
}

func weightedRMSE(recs []EquationRecord, c Curve, ch int) float64 {
	pal := Palette{}
	pal[ch] = c

	var sum, total float64
	for _, rec := range recs {
		d := pal.Mean(ch, rec.Tuple[:]) - (float64(rec.Color[ch]) + 0.5)
		w := float64(rec.Weight)
		sum += w * d * d
		total += w
	}
	if total == 0 {
		return 0
	}
	return math.Sqrt(sum / total)
}

// WriteFit prints one line per result.
func WriteFit(w io.Writer, results []FitResult) error {
	for _, r := range results {
		_, err := fmt.Fprintf(w, "channel %d: records=%d anchored a=%.6f rmse=%.4f fitted a=%.6f rmse=%.4f (m=%g b=%g)\n",
			r.Channel, r.Records, r.Anchored.A, r.AnchoredRMSE, r.Fitted.A, r.FittedRMSE, r.Fitted.M, r.Fitted.B)
		if err != nil {
			return err
		}
	}
	return nil
}
