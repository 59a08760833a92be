package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	fcolor "github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-sixel"
	"golang.org/x/term"

	"prominent/internal/palette"
)

type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatHex  outputFormat = "hex"
)

const (
	defaultTerminalWidth = 80
	swatchBlockCells     = 8
	stripHeight          = 48
	sixelStripWidth      = 480
)

func parseOutputFormat(value string) (outputFormat, error) {
	switch format := outputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatHex:
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or hex)", value)
	}
}

type extractResult struct {
	Path    string               `json:"path"`
	Palette palette.ThemePalette `json:"palette"`
}

type paletteRenderer struct {
	out          io.Writer
	format       outputFormat
	color        bool
	width        int
	showSwatches bool
	sixel        bool
	withPath     bool
}

func (r *paletteRenderer) Render(path string, theme palette.ThemePalette) error {
	switch r.format {
	case formatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(extractResult{Path: path, Palette: theme})
	case formatHex:
		return r.renderHex(path, theme)
	default:
		return r.renderText(path, theme)
	}
}

func (r *paletteRenderer) renderHex(path string, theme palette.ThemePalette) error {
	var builder strings.Builder
	for _, role := range palette.DisplayOrder() {
		roleColor := theme.Role(role)
		if roleColor == nil {
			continue
		}
		if r.withPath {
			fmt.Fprintf(&builder, "%s\t", path)
		}
		fmt.Fprintf(&builder, "%s\t%s\n", role, roleColor.Hex)
	}
	_, err := io.WriteString(r.out, builder.String())
	return err
}

func (r *paletteRenderer) renderText(path string, theme palette.ThemePalette) error {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s  %dx%d", path, theme.SourceWidth, theme.SourceHeight)
	if theme.SampleWidth != theme.SourceWidth || theme.SampleHeight != theme.SourceHeight {
		fmt.Fprintf(&builder, " -> %dx%d", theme.SampleWidth, theme.SampleHeight)
	}
	fmt.Fprintf(&builder, ", %s samples, %s\n", humanize.Comma(int64(theme.SampleCount)), theme.Options.Method)

	for _, role := range palette.DisplayOrder() {
		roleColor := theme.Role(role)
		if roleColor == nil {
			fmt.Fprintf(&builder, "  %s%-13s  -\n", r.emptyBlock(), role)
			continue
		}

		population := "synthesized"
		if roleColor.Population > 0 {
			population = humanize.Comma(int64(roleColor.Population))
		}
		fmt.Fprintf(&builder, "  %s%-13s  %s  hsl(%3.0f, %3.0f%%, %3.0f%%)  %s\n",
			r.block(*roleColor),
			role,
			roleColor.Hex,
			roleColor.Hue,
			roleColor.Saturation*100,
			roleColor.Lightness*100,
			population,
		)
	}

	fmt.Fprintf(&builder, "  %d swatches\n", len(theme.Swatches))
	if r.showSwatches {
		builder.WriteString(r.swatchRows(theme.Swatches))
	}

	if _, err := io.WriteString(r.out, builder.String()); err != nil {
		return err
	}

	if r.sixel && len(theme.Swatches) > 0 {
		if err := sixel.NewEncoder(r.out).Encode(renderStrip(theme.Swatches, sixelStripWidth, stripHeight)); err != nil {
			return fmt.Errorf("encode sixel: %w", err)
		}
		_, err := io.WriteString(r.out, "\n")
		return err
	}

	return nil
}

// block paints a sample of the role color with its title text color on top.
// Without color support it renders nothing so plain output stays aligned.
func (r *paletteRenderer) block(paletteColor palette.PaletteColor) string {
	if !r.color {
		return ""
	}

	text := fcolor.New()
	if title, err := colorful.Hex(paletteColor.TitleTextColor); err == nil {
		tr, tg, tb := title.RGB255()
		text.AddRGB(int(tr), int(tg), int(tb))
	}
	text.AddBgRGB(paletteColor.R, paletteColor.G, paletteColor.B)
	text.EnableColor()

	label := fmt.Sprintf("%-*s", swatchBlockCells, " Aa")
	return text.Sprint(label) + "  "
}

func (r *paletteRenderer) emptyBlock() string {
	if !r.color {
		return ""
	}
	return strings.Repeat(" ", swatchBlockCells+2)
}

func (r *paletteRenderer) swatchRows(swatches []palette.PaletteColor) string {
	if len(swatches) == 0 {
		return ""
	}

	if !r.color {
		hexes := make([]string, 0, len(swatches))
		for _, swatch := range swatches {
			hexes = append(hexes, swatch.Hex)
		}
		return "  " + strings.Join(hexes, " ") + "\n"
	}

	const cellsPerSwatch = 2
	perRow := max((r.width-2)/cellsPerSwatch, 1)

	var builder strings.Builder
	for start := 0; start < len(swatches); start += perRow {
		builder.WriteString("  ")
		for _, swatch := range swatches[start:min(start+perRow, len(swatches))] {
			paint := fcolor.BgRGB(swatch.R, swatch.G, swatch.B)
			paint.EnableColor()
			builder.WriteString(paint.Sprint(strings.Repeat(" ", cellsPerSwatch)))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// renderStrip lays the swatches out left to right, each as wide as its share
// of the total population. Swatches without population share equally.
func renderStrip(swatches []palette.PaletteColor, width int, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if len(swatches) == 0 || width <= 0 || height <= 0 {
		return img
	}

	total := 0
	for _, swatch := range swatches {
		total += swatch.Population
	}

	share := func(index int) float64 {
		if total == 0 {
			return float64(index) / float64(len(swatches))
		}
		cumulative := 0
		for _, swatch := range swatches[:index] {
			cumulative += swatch.Population
		}
		return float64(cumulative) / float64(total)
	}

	for index, swatch := range swatches {
		x0 := int(math.Round(share(index) * float64(width)))
		x1 := width
		if index+1 < len(swatches) {
			x1 = int(math.Round(share(index+1) * float64(width)))
		}

		fill := color.NRGBA{R: uint8(swatch.R), G: uint8(swatch.G), B: uint8(swatch.B), A: 255}
		for y := 0; y < height; y++ {
			for x := x0; x < x1; x++ {
				img.SetNRGBA(x, y, fill)
			}
		}
	}

	return img
}

func writeStripPNG(path string, swatches []palette.PaletteColor, width int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create strip: %w", err)
	}

	if err := png.Encode(file, renderStrip(swatches, width, stripHeight)); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode strip: %w", err)
	}

	return file.Close()
}

func isTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

func terminalWidth(file *os.File) int {
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
