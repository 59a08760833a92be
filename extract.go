package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const defaultStripWidth = 640

var extractFlags struct {
	format     string
	strip      string
	stripWidth int
	swatches   bool
	sixel      bool
	noColor    bool
}

var extractCmd = &cobra.Command{
	Use:   "extract <path>...",
	Short: "Print the role colors of images, audio file covers or whole directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), cmd.OutOrStdout(), args)
	},
}

func init() {
	flags := extractCmd.Flags()
	flags.StringVarP(&extractFlags.format, "format", "f", string(formatText), "output format: text, json or hex")
	flags.StringVar(&extractFlags.strip, "strip", "", "write a PNG strip of every swatch to this file (single input only)")
	flags.IntVar(&extractFlags.stripWidth, "strip-width", defaultStripWidth, "width of the --strip image in pixels")
	flags.BoolVarP(&extractFlags.swatches, "swatches", "s", false, "list every palette swatch, not only the roles")
	flags.BoolVar(&extractFlags.sixel, "sixel", false, "draw the swatch strip inline as sixel graphics")
	flags.BoolVar(&extractFlags.noColor, "no-color", false, "disable ANSI colors")
	rootCmd.AddCommand(extractCmd)
}

func newRenderer(out io.Writer, formatValue string, noColor bool, multiple bool) (*paletteRenderer, error) {
	format, err := parseOutputFormat(formatValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	renderer := &paletteRenderer{
		out:      out,
		format:   format,
		width:    defaultTerminalWidth,
		withPath: multiple,
	}
	if file, ok := out.(*os.File); ok && isTerminal(file) {
		renderer.color = !noColor
		renderer.width = terminalWidth(file)
	}
	return renderer, nil
}

func runExtract(ctx context.Context, out io.Writer, args []string) error {
	if extractFlags.strip != "" && extractFlags.stripWidth < 1 {
		return fmt.Errorf("%w: --strip-width must be positive", errUsage)
	}

	single := len(args) == 1 && !isDir(args[0])
	if extractFlags.strip != "" && !single {
		return fmt.Errorf("%w: --strip needs exactly one file", errUsage)
	}

	renderer, err := newRenderer(out, extractFlags.format, extractFlags.noColor, !single)
	if err != nil {
		return err
	}
	renderer.showSwatches = extractFlags.swatches
	renderer.sixel = extractFlags.sixel

	if single {
		theme, err := state.themes.GenerateFromCover(args[0], state.options)
		if err != nil {
			return err
		}
		if err := renderer.Render(args[0], theme); err != nil {
			return err
		}
		if extractFlags.strip != "" {
			if err := writeStripPNG(extractFlags.strip, theme.Swatches, extractFlags.stripWidth); err != nil {
				return err
			}
			state.logger.Info("wrote strip", "path", extractFlags.strip, "swatches", len(theme.Swatches))
		}
		return nil
	}

	// Progress goes to stderr only when it cannot interleave with the results.
	var progressOut io.Writer
	if file, ok := out.(*os.File); ok && !isTerminal(file) && isTerminal(os.Stderr) {
		progressOut = os.Stderr
	}

	totals, err := state.scanner.ExtractAll(ctx, args, progressOut, func(ctx context.Context, path string) error {
		theme, err := state.themes.GenerateFromCover(path, state.options)
		if err != nil {
			return err
		}
		return renderer.Render(path, theme)
	})
	if err != nil {
		return err
	}

	switch {
	case totals.FilesSeen == 0:
		return errors.New("no supported files found")
	case totals.Indexed == 0:
		return fmt.Errorf("no palettes extracted from %d files", totals.FilesSeen)
	}

	state.logger.Debug("extract finished", "seen", totals.FilesSeen, "extracted", totals.Indexed, "skipped", totals.Skipped)
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
