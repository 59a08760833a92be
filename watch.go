package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"prominent/internal/scanner"
)

var watchFlags struct {
	format  string
	delay   time.Duration
	initial bool
	noColor bool
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir|file>...",
	Short: "Re-extract covers whenever they change on disk",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWatch(ctx, cmd.OutOrStdout(), args)
	},
}

func init() {
	flags := watchCmd.Flags()
	flags.StringVarP(&watchFlags.format, "format", "f", string(formatText), "output format: text, json or hex")
	flags.DurationVar(&watchFlags.delay, "delay", scanner.DefaultWatchDelay, "quiet period before a changed file is re-read")
	flags.BoolVar(&watchFlags.initial, "initial", false, "extract every file once before watching")
	flags.BoolVar(&watchFlags.noColor, "no-color", false, "disable ANSI colors")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, out io.Writer, args []string) error {
	renderer, err := newRenderer(out, watchFlags.format, watchFlags.noColor, true)
	if err != nil {
		return err
	}

	var renderMu sync.Mutex
	extract := func(path string) error {
		theme, err := state.themes.GenerateFromCover(path, state.options)
		if err != nil {
			return err
		}

		renderMu.Lock()
		defer renderMu.Unlock()
		return renderer.Render(path, theme)
	}

	if watchFlags.initial {
		if _, err := state.scanner.ExtractAll(ctx, args, nil, func(ctx context.Context, path string) error {
			return extract(path)
		}); err != nil {
			return err
		}
	}

	return state.scanner.Watch(ctx, args, watchFlags.delay, func(path string) {
		if err := extract(path); err != nil {
			state.logger.Warn("extract failed", "path", path, "err", err)
			return
		}
		state.logger.Debug("watch event", "path", path)
	})
}
