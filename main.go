package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"prominent/internal/config"
	"prominent/internal/palette"
)

const appSlug = "prominent"

var errUsage = errors.New("usage error")

// app carries what every subcommand shares once flags are parsed.
type app struct {
	logger   *slog.Logger
	paths    config.Paths
	options  palette.ExtractOptions
	covers   *CoverService
	themes   *ThemeService
	scanner  *ScannerService
	settings *SettingsService
}

var state app

var rootFlags struct {
	verbose        bool
	configPath     string
	colors         int
	quality        int
	method         string
	maxDimension   int
	alphaThreshold int
	keepNearWhite  bool
	noSnap         bool
}

var rootCmd = &cobra.Command{
	Use:           appSlug,
	Short:         "Pick prominent colors out of images and album covers",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr, rootFlags.verbose)

		paths, err := resolvePaths(rootFlags.configPath)
		if err != nil {
			return err
		}

		workingDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working dir: %w", err)
		}

		settings := NewSettingsService(paths)
		options, err := settings.Load()
		if err != nil {
			return err
		}
		options, err = applyOptionFlags(cmd, options)
		if err != nil {
			return err
		}

		covers := NewCoverService(workingDir)
		state = app{
			logger:   logger,
			paths:    paths,
			options:  options,
			covers:   covers,
			themes:   NewThemeService(covers, logger),
			scanner:  NewScannerService(covers, logger),
			settings: settings,
		}
		logger.Debug("options loaded", "config", paths.ConfigPath, "colors", options.ColorCount, "method", options.Method)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "log debug details to stderr")
	flags.StringVar(&rootFlags.configPath, "config", "", "options file (default: user config dir)")
	flags.IntVarP(&rootFlags.colors, "colors", "c", palette.DefaultColorCount, "palette size, 2 to 256")
	flags.IntVarP(&rootFlags.quality, "quality", "q", palette.DefaultQuality, "sample every n-th pixel")
	flags.StringVarP(&rootFlags.method, "method", "m", string(palette.MethodMedianCut), "candidate method: mediancut, kmeans or dominant")
	flags.IntVar(&rootFlags.maxDimension, "max-dimension", 0, "downscale so the longest side is at most this many pixels (0 keeps the source size)")
	flags.IntVar(&rootFlags.alphaThreshold, "alpha-threshold", palette.DefaultAlphaThreshold, "skip pixels with alpha below this value")
	flags.BoolVar(&rootFlags.keepNearWhite, "keep-near-white", false, "sample near-white pixels too")
	flags.BoolVar(&rootFlags.noSnap, "no-snap", false, "do not snap the darkest and lightest colors to black and white")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appSlug, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	noColor := true
	if file, ok := w.(*os.File); ok {
		noColor = !isTerminal(file)
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

func resolvePaths(configPath string) (config.Paths, error) {
	if configPath != "" {
		paths := config.PathsUnder(filepath.Dir(configPath))
		paths.ConfigPath = configPath
		return paths, nil
	}
	return config.ResolvePaths(appSlug)
}

// applyOptionFlags overrides file options with the flags the user set
// explicitly.
func applyOptionFlags(cmd *cobra.Command, options palette.ExtractOptions) (palette.ExtractOptions, error) {
	flags := cmd.Flags()

	if flags.Changed("colors") {
		options.ColorCount = rootFlags.colors
	}
	if options.ColorCount < palette.MinColorCount || options.ColorCount > palette.MaxColorCount {
		return options, fmt.Errorf("%w: --colors must be between %d and %d, got %d", errUsage, palette.MinColorCount, palette.MaxColorCount, options.ColorCount)
	}
	if flags.Changed("quality") {
		if rootFlags.quality < 1 {
			return options, fmt.Errorf("%w: --quality must be at least 1", errUsage)
		}
		options.Quality = rootFlags.quality
	}
	if flags.Changed("method") {
		method, err := palette.ParseMethod(rootFlags.method)
		if err != nil {
			return options, fmt.Errorf("%w: %v", errUsage, err)
		}
		options.Method = method
	}
	if flags.Changed("max-dimension") {
		options.MaxDimension = rootFlags.maxDimension
	}
	if flags.Changed("alpha-threshold") {
		options.AlphaThreshold = rootFlags.alphaThreshold
	}
	if flags.Changed("keep-near-white") {
		options.IgnoreNearWhite = !rootFlags.keepNearWhite
	}
	if flags.Changed("no-snap") {
		options.SnapBlackWhite = !rootFlags.noSnap
	}

	return palette.NormalizeExtractOptions(options), nil
}
