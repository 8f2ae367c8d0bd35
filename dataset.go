package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// multiCloser closes its parts in order and reports the first error.
type multiCloser struct {
	io.Reader
	io.Writer
	closers []func() error
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CreateOutput opens a destination for dataset text. "-" or "" is stdout, a
// ".zst" suffix selects zstd compression, anything else is a plain file.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return &multiCloser{Writer: os.Stdout}, nil
	}

	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return out, nil
	}

	enc, err := zstd.NewWriter(out, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		out.Close()
		return nil, err
	}
	return &multiCloser{Writer: enc, closers: []func() error{enc.Close, out.Close}}, nil
}

// OpenInput opens a dataset for reading. "-" or "" is stdin. Zstd streams are
// recognised by their magic number and decompressed transparently.
func OpenInput(path string) (io.ReadCloser, error) {
	var (
		src    io.Reader = os.Stdin
		closer           = func() error { return nil }
	)
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src, closer = f, f.Close
	}
	return wrapInput(src, closer)
}

func wrapInput(src io.Reader, closer func() error) (io.ReadCloser, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(err, closer())
	}
	if !bytes.Equal(head, zstdMagic) {
		return &multiCloser{Reader: br, closers: []func() error{closer}}, nil
	}

	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, errors.Join(err, closer())
	}
	return &multiCloser{Reader: dec, closers: []func() error{
		func() error { dec.Close(); return nil },
		closer,
	}}, nil
}
