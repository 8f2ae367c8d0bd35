package main

import (
	"fmt"
	"image"
	"image/color"
)

const (
	// blockSize is the supersampling factor in each direction.
	blockSize = 3

	// maxRawSample is the largest count that fits in three 8-bit channels.
	maxRawSample = 1<<24 - 1
)

// RawSample is an iteration count packed into a pixel as r + 256·g + 65536·b.
type RawSample uint32

// UnpackRaw decodes a raw pixel.
func UnpackRaw(r, g, b uint8) RawSample {
	return RawSample(r) + 256*(RawSample(g)+256*RawSample(b))
}

// Pack is the inverse of UnpackRaw. Counts above 2^24-1 lose their high bits.
func (s RawSample) Pack() color.NRGBA {
	return color.NRGBA{
		R: uint8(s),
		G: uint8(s >> 8),
		B: uint8(s >> 16),
		A: 255,
	}
}

// SuperBlock is the 3x3 neighbourhood of samples behind one output pixel,
// stored with x varying slowest.
type SuperBlock [blockSize * blockSize]RawSample

// rawGrid gives direct access to the packed samples of an image whose
// origin is (0,0).
type rawGrid struct {
	img *image.NRGBA
}

func newRawGrid(img image.Image) rawGrid {
	return rawGrid{img: toNRGBA(img)}
}

// At returns the sample at (x, y).
func (g rawGrid) At(x, y int) RawSample {
	p := g.img.PixOffset(x, y)
	pix := g.img.Pix[p : p+3 : p+3]
	return UnpackRaw(pix[0], pix[1], pix[2])
}

// Block reads the super block for reduced-grid pixel (x, y).
func (g rawGrid) Block(x, y int) SuperBlock {
	var sb SuperBlock
	i := 0
	for ox := 0; ox < blockSize; ox++ {
		for oy := 0; oy < blockSize; oy++ {
			sb[i] = g.At(x*blockSize+ox, y*blockSize+oy)
			i++
		}
	}
	return sb
}

// reducedSize returns the size of the output grid; partial border blocks
// are dropped.
func (g rawGrid) reducedSize() (int, int) {
	b := g.img.Bounds()
	return b.Dx() / blockSize, b.Dy() / blockSize
}

func (sb SuperBlock) String() string {
	return fmt.Sprint([blockSize * blockSize]RawSample(sb))
}
