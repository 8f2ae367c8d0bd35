package main

import (
	"context"
	"fmt"
	"image"
)

// View selects the rectangle of the complex plane to render. CenterX and
// CenterY are the coordinates of the middle of the image; PixelSize is the
// distance between neighbouring samples.
type View struct {
	CenterX, CenterY float64
	PixelSize        float64
	Width, Height    int
	MaxIters         int
}

func (v View) validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("render: bad size %dx%d", v.Width, v.Height)
	case v.PixelSize <= 0:
		return fmt.Errorf("render: pixel size must be positive, got %g", v.PixelSize)
	case v.MaxIters <= 0 || v.MaxIters > maxRawSample:
		return fmt.Errorf("render: max iterations must be in [1, %d], got %d", maxRawSample, v.MaxIters)
	}
	return nil
}

// escapeCount returns the number of iterations of z ← z² + c, starting from
// z = 0, until |z|² ≥ 4. Points that have not escaped before maxIters steps
// or that fall into an exact cycle return 0.
func escapeCount(cx, cy float64, maxIters int) RawSample {
	x, y := cx, cy
	lx, ly := cx, cy
	x2, y2 := x*x, y*y
	it := 1
	// it already counts z = c, so the first checkpoint falls ten steps
	// after it.
	mark, markInc := min(11, maxIters), 10
	for x2+y2 < 4 {
		y = 2*x*y + cy
		x = x2 - y2 + cx
		if x == lx && y == ly {
			return 0
		}
		x2, y2 = x*x, y*y
		it++
		if it >= mark {
			if it >= maxIters {
				return 0
			}
			// Checkpoints get further apart so long cycles are caught too.
			markInc++
			mark = min(mark+markInc, maxIters)
			lx, ly = x, y
		}
	}
	return RawSample(it)
}

// Render produces a raw image for v: every pixel holds its escape count
// packed as a RawSample. Rendering at three times the final size gives
// input suitable for Colorize.
func Render(ctx context.Context, v View, opts Options) (*image.NRGBA, error) {
	if err := v.validate(); err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, v.Width, v.Height))
	half := v.PixelSize * 0.5
	baseX := v.CenterX - float64(v.Width-1)*half
	baseY := v.CenterY + float64(v.Height-1)*half

	prog := newProgress("render", v.Height, opts)
	err := forEachBand(ctx, v.Height, opts, func(ctx context.Context, y0, y1 int) error {
		for py := y0; py < y1; py++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			cy := baseY - float64(py)*v.PixelSize
			for px := 0; px < v.Width; px++ {
				cx := baseX + float64(px)*v.PixelSize
				dst.SetNRGBA(px, py, escapeCount(cx, cy, v.MaxIters).Pack())
			}
			prog.row()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}
