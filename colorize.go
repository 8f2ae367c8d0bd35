package main

import (
	"context"
	"image"
	"image/color"
)

// Colorize mixes the supersampled raw image src down by a factor of three in
// each direction, mapping every sample through pal. Rows and columns that do
// not fill a whole 3x3 block are dropped.
func Colorize(ctx context.Context, src image.Image, pal *Palette, opts Options) (*image.NRGBA, error) {
	grid := newRawGrid(src)
	w, h := grid.reducedSize()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	prog := newProgress("convert", h, opts)
	err := forEachBand(ctx, h, opts, func(ctx context.Context, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < w; x++ {
				sb := grid.Block(x, y)
				dst.SetNRGBA(x, y, colorizeBlock(pal, &sb))
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

func colorizeBlock(pal *Palette, sb *SuperBlock) color.NRGBA {
	return color.NRGBA{
		R: pal.Channel(0, sb[:]),
		G: pal.Channel(1, sb[:]),
		B: pal.Channel(2, sb[:]),
		A: 255,
	}
}
