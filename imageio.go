package main

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned when an output path has an extension we
// cannot encode.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// toNRGBA copies any image.Image into an *image.NRGBA with bounds starting
// at (0,0). Raw images are read through this so that 8-bit channels come
// back unchanged.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// LoadImage decodes the image at path. PNG, JPEG, GIF, BMP and TIFF are
// recognised.
func LoadImage(path string) (image.Image, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	img, format, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	slog.Debug("image loaded",
		slog.String("path", path),
		slog.String("format", format),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()))
	return img, nil
}

// SaveImage encodes img to path using the encoder implied by its extension.
func SaveImage(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := enc(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode, nil
	case ".tif", ".tiff":
		return func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	case ".bmp":
		return bmp.Encode, nil
	}
	// JPEG and GIF are lossy for raw counts and not offered as outputs.
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
