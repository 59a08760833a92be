package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}

func quadrantCover() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	fillRect(img, image.Rect(0, 0, 128, 128), color.NRGBA{R: 198, G: 48, B: 59, A: 255})
	fillRect(img, image.Rect(128, 0, 256, 128), color.NRGBA{R: 24, G: 144, B: 242, A: 255})
	fillRect(img, image.Rect(0, 128, 128, 256), color.NRGBA{R: 242, G: 188, B: 12, A: 255})
	fillRect(img, image.Rect(128, 128, 256, 256), color.NRGBA{R: 36, G: 184, B: 92, A: 255})
	return img
}

func solidCover(fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	fillRect(img, img.Bounds(), fill)
	return img
}

func writeCover(t *testing.T, path string, img image.Image, modTime time.Time) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

// resetFlags restores every flag to its default so commands can be executed
// repeatedly within one test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func touch(path string, modTime time.Time) error {
	return os.Chtimes(path, modTime, modTime)
}
