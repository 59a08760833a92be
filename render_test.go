package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"prominent/internal/palette"
)

func extractQuadrant(t *testing.T) palette.ThemePalette {
	t.Helper()

	theme, err := palette.NewExtractor().ExtractFromImage(quadrantCover(), palette.DefaultExtractOptions())
	require.NoError(t, err)
	return theme
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]outputFormat{"": formatText, "TEXT": formatText, "json": formatJSON, " hex ": formatHex} {
		got, err := parseOutputFormat(input)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := parseOutputFormat("yaml")
	require.Error(t, err)
}

func TestRenderTextPlain(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := &paletteRenderer{out: &out, format: formatText, width: 80, showSwatches: true}
	require.NoError(t, renderer.Render("cover.png", extractQuadrant(t)))

	text := out.String()
	require.NotContains(t, text, "\x1b[")
	require.Contains(t, text, "cover.png  256x256")
	require.Contains(t, text, "vibrant")
	require.Contains(t, text, "#f4bc0c")
	require.Contains(t, text, "darkVibrant")
	require.Contains(t, text, "4 swatches")
	require.Contains(t, text, "mediancut")

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	require.Len(t, lines, 1+len(palette.DisplayOrder())+2)
}

func TestRenderTextColor(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := &paletteRenderer{out: &out, format: formatText, width: 10, color: true, showSwatches: true}
	require.NoError(t, renderer.Render("cover.png", extractQuadrant(t)))

	text := out.String()
	require.Contains(t, text, "48;2;244;188;12")
	// Yellow has luma 184, so the title text on it is white.
	require.Contains(t, text, "38;2;255;255;255;48;2;244;188;12")
}

func TestRenderHex(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := &paletteRenderer{out: &out, format: formatHex}
	require.NoError(t, renderer.Render("cover.png", extractQuadrant(t)))
	require.Equal(t, "vibrant\t#f4bc0c\ndarkVibrant\t#24bc5c\n", out.String())

	out.Reset()
	renderer.withPath = true
	require.NoError(t, renderer.Render("cover.png", extractQuadrant(t)))
	require.True(t, strings.HasPrefix(out.String(), "cover.png\tvibrant\t#f4bc0c\n"))
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	renderer := &paletteRenderer{out: &out, format: formatJSON}
	theme := extractQuadrant(t)
	require.NoError(t, renderer.Render("cover.png", theme))

	var decoded extractResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, "cover.png", decoded.Path)
	require.Equal(t, theme.Vibrant.Hex, decoded.Palette.Vibrant.Hex)
	require.Nil(t, decoded.Palette.Muted)
	require.Len(t, decoded.Palette.Swatches, 4)
}

func TestRenderStripProportions(t *testing.T) {
	t.Parallel()

	swatches := []palette.PaletteColor{
		{R: 255, Population: 1},
		{B: 255, Population: 3},
	}
	strip := renderStrip(swatches, 8, 2)

	require.Equal(t, uint8(255), strip.NRGBAAt(1, 1).R)
	require.Equal(t, uint8(255), strip.NRGBAAt(2, 0).B)
	require.Equal(t, uint8(255), strip.NRGBAAt(7, 1).B)
	require.Equal(t, uint8(255), strip.NRGBAAt(7, 1).A)
}

func TestRenderStripWithoutPopulation(t *testing.T) {
	t.Parallel()

	swatches := []palette.PaletteColor{{R: 255}, {G: 255}, {B: 255}, {R: 255, G: 255}}
	strip := renderStrip(swatches, 8, 1)

	require.Equal(t, uint8(255), strip.NRGBAAt(1, 0).R)
	require.Equal(t, uint8(255), strip.NRGBAAt(3, 0).G)
	require.Equal(t, uint8(255), strip.NRGBAAt(5, 0).B)
	require.Equal(t, uint8(255), strip.NRGBAAt(7, 0).G)

	empty := renderStrip(nil, 4, 4)
	require.Equal(t, uint8(0), empty.NRGBAAt(0, 0).A)
}

func TestWriteStripPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "strip.png")
	require.NoError(t, writeStripPNG(path, extractQuadrant(t).Swatches, 100))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
	require.Equal(t, stripHeight, img.Bounds().Dy())
}
