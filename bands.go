package main

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// bandsPerWorker oversplits the rows so a slow band does not leave the
// other workers idle at the end.
const bandsPerWorker = 4

// Options controls how the pipelines run. The zero value is usable.
type Options struct {
	// Workers bounds the number of goroutines; 0 means runtime.NumCPU().
	Workers int

	// ProgressRows is the number of output rows between progress lines;
	// 0 disables progress reporting.
	ProgressRows int

	// Logger receives progress and diagnostics; nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// forEachBand splits rows [0, h) into contiguous bands and calls fn for each
// band on its own goroutine. The first error cancels ctx for the others.
func forEachBand(ctx context.Context, h int, opts Options, fn func(ctx context.Context, y0, y1 int) error) error {
	if h <= 0 {
		return nil
	}
	workers := opts.workers()
	bands := min(workers*bandsPerWorker, h)
	rowsPerBand := (h + bands - 1) / bands

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < h; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, h)
		g.Go(func() error {
			return fn(ctx, y0, y1)
		})
	}
	return g.Wait()
}

// progress counts finished rows and logs every n of them. Bands finish
// out of order, so the logged figure is a count, not a row index.
type progress struct {
	log   *slog.Logger
	stage string
	every int64
	total int
	done  atomic.Int64
}

func newProgress(stage string, total int, opts Options) *progress {
	return &progress{
		log:   opts.logger(),
		stage: stage,
		every: int64(opts.ProgressRows),
		total: total,
	}
}

func (p *progress) row() {
	n := p.done.Add(1)
	if p.every > 0 && n%p.every == 0 {
		p.log.Info("progress",
			slog.String("stage", p.stage),
			slog.Int64("done", n),
			slog.Int("rows", p.total))
	}
}
