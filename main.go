package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logFormat  string
	logLevel   string
	workers    int
	outputPath string
	channel    string
	view       View

	// cfg and pal are fixed once flags are parsed.
	cfg Config
	pal *Palette

	rootCmd = &cobra.Command{
		Use:   "mandelcolor",
		Short: "Colour raw Mandelbrot iteration images and recover their colour curves",
		Long: `mandelcolor turns "raw" images, whose pixels hold packed iteration counts,
into coloured images mixed down from 3x3 supersampling, and extracts the
observed count->colour mapping as a weighted dataset for curve fitting.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	convertCmd = &cobra.Command{
		Use:   "convert <input-image> <output-image>",
		Short: "Colour a raw image and mix it down 3x",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0], args[1])
		},
	}

	extractCmd = &cobra.Command{
		Use:   "extract <raw-image> <color-image>",
		Short: "Write the weighted tuple->colour equations of an image pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), args[0], args[1], outputPath)
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render <output-image>",
		Short: "Render a raw iteration-count image of the Mandelbrot set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), view, args[0])
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [equations]",
		Short: "List equations that one channel's curve narrowly misses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(channel)
			if err != nil {
				return err
			}
			recs, err := loadRecords(args)
			if err != nil {
				return err
			}
			return Inspect(cmd.OutOrStdout(), recs, pal, ch)
		},
	}

	searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Print inputs where one channel's curve lands near a multiple of 1/20",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := parseChannel(channel)
			if err != nil {
				return err
			}
			return Search(cmd.OutOrStdout(), pal, ch)
		},
	}

	octaveCmd = &cobra.Command{
		Use:   "octave [equations]",
		Short: "Export well-fitting equations as Octave globals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(args)
			if err != nil {
				return err
			}
			return WriteOctave(cmd.OutOrStdout(), recs, pal)
		},
	}

	fitCmd = &cobra.Command{
		Use:   "fit [equations]",
		Short: "Refit each channel's offset against an equations dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := loadRecords(args)
			if err != nil {
				return err
			}
			results := make([]FitResult, 0, len(pal))
			for ch := range pal {
				r, err := FitChannel(recs, pal, ch)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			return WriteFit(cmd.OutOrStdout(), results)
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML file with curve seeds (defaults to the reference curves)")
	pf.StringVar(&logFormat, "log-format", "", "Diagnostic format: text or json (default: text on a terminal)")
	pf.StringVar(&logLevel, "log-level", "info", "Diagnostic level: debug, info, warn or error")
	pf.IntVar(&workers, "workers", 0, "Worker goroutines (0 = config value, then one per CPU)")

	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Write equations here; a .zst suffix compresses")

	for _, c := range []*cobra.Command{inspectCmd, searchCmd} {
		c.Flags().StringVarP(&channel, "channel", "c", "r", "Channel to examine: r, g, b or 0-2")
	}

	rf := renderCmd.Flags()
	rf.Float64Var(&view.CenterX, "center-x", -0.75, "Real coordinate of the image centre")
	rf.Float64Var(&view.CenterY, "center-y", 0, "Imaginary coordinate of the image centre")
	rf.Float64Var(&view.PixelSize, "pixel-size", 1.0/256, "Distance between neighbouring samples")
	rf.IntVar(&view.Width, "width", 1152, "Image width in samples")
	rf.IntVar(&view.Height, "height", 768, "Image height in samples")
	rf.IntVar(&view.MaxIters, "max-iters", 100000, "Iteration limit; points that do not escape are stored as 0")

	rootCmd.AddCommand(convertCmd, extractCmd, renderCmd, inspectCmd, searchCmd, octaveCmd, fitCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(os.Stderr, logFormat, logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	cfg, err = LoadConfig(configPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	pal = cfg.Palette()
	slog.Debug("curves ready", slog.String("palette", pal.String()))
	return nil
}

func parseChannel(s string) (int, error) {
	switch strings.ToLower(s) {
	case "r", "red", "0":
		return 0, nil
	case "g", "green", "1":
		return 1, nil
	case "b", "blue", "2":
		return 2, nil
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

func loadRecords(args []string) ([]EquationRecord, error) {
	path := "-"
	if len(args) > 0 {
		path = args[0]
	}
	in, err := OpenInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return ReadRecords(in)
}

func runConvert(ctx context.Context, inPath, outPath string) error {
	src, err := LoadImage(inPath)
	if err != nil {
		return err
	}
	dst, err := Colorize(ctx, src, pal, cfg.Options())
	if err != nil {
		return err
	}
	return SaveImage(outPath, dst)
}

func runExtract(ctx context.Context, rawPath, colorPath, outPath string) error {
	raw, err := LoadImage(rawPath)
	if err != nil {
		return err
	}
	colored, err := LoadImage(colorPath)
	if err != nil {
		return err
	}

	eq, err := Extract(ctx, raw, colored, cfg.Options())
	if err != nil {
		return err
	}
	if n := len(eq.Inconsistencies()); n > 0 {
		slog.Warn("dataset has inconsistent tuples",
			slog.Int("conflicts", n),
			slog.Int("tuples", eq.Len()))
	}

	out, err := CreateOutput(outPath)
	if err != nil {
		return err
	}
	if err := WriteRecords(out, eq.Records()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func runRender(ctx context.Context, v View, outPath string) error {
	img, err := Render(ctx, v, cfg.Options())
	if err != nil {
		return err
	}
	return SaveImage(outPath, img)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
