package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"slices"
)

// ErrDimensionMismatch is returned by Extract when the colour image is not
// the reduced size of the raw image.
var ErrDimensionMismatch = errors.New("image dimensions do not match")

// RGB is an observed output colour.
type RGB [3]uint8

// EquationRecord maps one canonical input tuple to the colour it produced,
// together with the number of times it was seen.
type EquationRecord struct {
	Tuple  CanonicalTuple
	Color  RGB
	Weight int
}

// Inconsistency describes a tuple that was seen with two different colours.
// Stored and Weight are the record as it was before the conflicting pixel.
type Inconsistency struct {
	Tuple  CanonicalTuple
	Stored RGB
	Weight int
	Got    RGB
	X, Y   int
}

func (inc Inconsistency) String() string {
	return fmt.Sprintf("inconsistent result: previous value and weight for %v was %v/%d, but value at (%d,%d) is %v",
		inc.Tuple, inc.Stored, inc.Weight, inc.X, inc.Y, inc.Got)
}

// Equations accumulates records keyed by canonical tuple. The first colour
// seen for a tuple is kept; later conflicting observations are reported and
// do not change the record.
type Equations struct {
	records   map[CanonicalTuple]*EquationRecord
	conflicts []Inconsistency
}

// NewEquations returns an empty accumulator.
func NewEquations() *Equations {
	return &Equations{records: make(map[CanonicalTuple]*EquationRecord)}
}

// Observe adds one reduced pixel at (x, y). It reports whether the
// observation conflicted with an earlier one.
func (e *Equations) Observe(t CanonicalTuple, c RGB, x, y int) (Inconsistency, bool) {
	rec, ok := e.records[t]
	if !ok {
		e.records[t] = &EquationRecord{Tuple: t, Color: c, Weight: 1}
		return Inconsistency{}, false
	}
	if rec.Color != c {
		inc := Inconsistency{
			Tuple:  t,
			Stored: rec.Color,
			Weight: rec.Weight,
			Got:    c,
			X:      x,
			Y:      y,
		}
		e.conflicts = append(e.conflicts, inc)
		return inc, true
	}
	rec.Weight++
	return Inconsistency{}, false
}

// Len returns the number of distinct tuples.
func (e *Equations) Len() int {
	return len(e.records)
}

// Lookup returns the record for t.
func (e *Equations) Lookup(t CanonicalTuple) (EquationRecord, bool) {
	rec, ok := e.records[t]
	if !ok {
		return EquationRecord{}, false
	}
	return *rec, true
}

// Inconsistencies returns the conflicts in the order they were observed.
func (e *Equations) Inconsistencies() []Inconsistency {
	return e.conflicts
}

// Records returns all records, most frequent first. Ties are broken by
// tuple and then by colour, both ascending.
func (e *Equations) Records() []EquationRecord {
	out := make([]EquationRecord, 0, len(e.records))
	for _, rec := range e.records {
		out = append(out, *rec)
	}
	slices.SortFunc(out, compareRecords)
	return out
}

func compareRecords(a, b EquationRecord) int {
	return cmp.Or(
		cmp.Compare(b.Weight, a.Weight),
		a.Tuple.Compare(b.Tuple),
		slices.Compare(a.Color[:], b.Color[:]),
	)
}

// Extract pairs every 3x3 block of raw with the matching pixel of colored
// and accumulates the resulting equations. Conflicts are logged as warnings
// and do not stop the run.
//
// Tuples are computed in parallel bands; the accumulator is then filled in a
// single row-major pass, so the result and the order of reported conflicts
// match a sequential sweep.
func Extract(ctx context.Context, raw, colored image.Image, opts Options) (*Equations, error) {
	grid := newRawGrid(raw)
	w, h := grid.reducedSize()
	cb := colored.Bounds()
	if cb.Dx() != w || cb.Dy() != h {
		return nil, fmt.Errorf("%w: raw image %dx%d reduces to %dx%d, colour image is %dx%d",
			ErrDimensionMismatch, raw.Bounds().Dx(), raw.Bounds().Dy(), w, h, cb.Dx(), cb.Dy())
	}
	col := toNRGBA(colored)

	tuples := make([]CanonicalTuple, w*h)
	err := forEachBand(ctx, h, opts, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := tuples[y*w : (y+1)*w]
			for x := range row {
				row[x] = Canonicalize(grid.Block(x, y))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := opts.logger()
	prog := newProgress("extract", h, opts)
	eq := NewEquations()
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			p := col.PixOffset(x, y)
			c := RGB{col.Pix[p], col.Pix[p+1], col.Pix[p+2]}
			if inc, bad := eq.Observe(tuples[y*w+x], c, x, y); bad {
				log.Warn("inconsistent result",
					slog.Any("tuple", inc.Tuple),
					slog.Any("stored", inc.Stored),
					slog.Int("weight", inc.Weight),
					slog.Any("got", inc.Got),
					slog.Int("x", inc.X),
					slog.Int("y", inc.Y))
			}
		}
		prog.row()
	}
	return eq, nil
}
