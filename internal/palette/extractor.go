package palette

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultColorCount     = 64
	DefaultQuality        = 5
	DefaultAlphaThreshold = 125
	nearWhiteThreshold    = 250
	maxDimensionLimit     = 4096
)

var ErrNoPixels = errors.New("image has no pixels")

var defaultExtractOptions = ExtractOptions{
	ColorCount:      DefaultColorCount,
	Quality:         DefaultQuality,
	AlphaThreshold:  DefaultAlphaThreshold,
	IgnoreNearWhite: true,
	SnapBlackWhite:  true,
	MaxDimension:    0,
	Method:          MethodMedianCut,
}

type ExtractOptions struct {
	ColorCount      int    `json:"colorCount"`
	Quality         int    `json:"quality"`
	AlphaThreshold  int    `json:"alphaThreshold"`
	IgnoreNearWhite bool   `json:"ignoreNearWhite"`
	SnapBlackWhite  bool   `json:"snapBlackWhite"`
	MaxDimension    int    `json:"maxDimension"`
	Method          Method `json:"method"`
}

type ThemePalette struct {
	Vibrant      *PaletteColor  `json:"vibrant,omitempty"`
	Muted        *PaletteColor  `json:"muted,omitempty"`
	DarkVibrant  *PaletteColor  `json:"darkVibrant,omitempty"`
	DarkMuted    *PaletteColor  `json:"darkMuted,omitempty"`
	LightVibrant *PaletteColor  `json:"lightVibrant,omitempty"`
	LightMuted   *PaletteColor  `json:"lightMuted,omitempty"`
	Gradient     []PaletteColor `json:"gradient"`
	Swatches     []PaletteColor `json:"swatches"`
	SourceWidth  int            `json:"sourceWidth"`
	SourceHeight int            `json:"sourceHeight"`
	SampleWidth  int            `json:"sampleWidth"`
	SampleHeight int            `json:"sampleHeight"`
	SampleCount  int            `json:"sampleCount"`
	Options      ExtractOptions `json:"options"`
}

type PaletteColor struct {
	Role           Role    `json:"role,omitempty"`
	Hex            string  `json:"hex"`
	R              int     `json:"r"`
	G              int     `json:"g"`
	B              int     `json:"b"`
	Population     int     `json:"population"`
	Hue            float64 `json:"hue"`
	Saturation     float64 `json:"saturation"`
	Lightness      float64 `json:"lightness"`
	TitleTextColor string  `json:"titleTextColor"`
	BodyTextColor  string  `json:"bodyTextColor"`
}

// Role looks up the color chosen for a role.
func (p ThemePalette) Role(role Role) *PaletteColor {
	switch role {
	case RoleVibrant:
		return p.Vibrant
	case RoleMuted:
		return p.Muted
	case RoleDarkVibrant:
		return p.DarkVibrant
	case RoleDarkMuted:
		return p.DarkMuted
	case RoleLightVibrant:
		return p.LightVibrant
	case RoleLightMuted:
		return p.LightMuted
	default:
		return nil
	}
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func DefaultExtractOptions() ExtractOptions {
	return defaultExtractOptions
}

func NormalizeExtractOptions(options ExtractOptions) ExtractOptions {
	return options.normalized()
}

// normalized fills unset values with defaults. An explicit color count
// outside [2, 256] is kept so Quantize can reject it.
func (o ExtractOptions) normalized() ExtractOptions {
	normalized := o

	if normalized.ColorCount == 0 {
		normalized.ColorCount = defaultExtractOptions.ColorCount
	}
	if normalized.Quality <= 0 {
		normalized.Quality = defaultExtractOptions.Quality
	}
	if normalized.AlphaThreshold < 0 {
		normalized.AlphaThreshold = 0
	}
	normalized.AlphaThreshold = min(normalized.AlphaThreshold, 255)
	if normalized.MaxDimension < 0 {
		normalized.MaxDimension = 0
	}
	normalized.MaxDimension = min(normalized.MaxDimension, maxDimensionLimit)
	if !normalized.Method.Valid() {
		normalized.Method = defaultExtractOptions.Method
	}

	return normalized
}

func (e *Extractor) ExtractFromPath(path string, options ExtractOptions) (ThemePalette, error) {
	file, err := os.Open(path)
	if err != nil {
		return ThemePalette{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	decoded, _, err := image.Decode(file)
	if err != nil {
		return ThemePalette{}, fmt.Errorf("decode image: %w", err)
	}

	return e.ExtractFromImage(decoded, options)
}

func (e *Extractor) ExtractFromImage(img image.Image, options ExtractOptions) (ThemePalette, error) {
	normalized := options.normalized()
	bounds := img.Bounds()
	if bounds.Empty() {
		return ThemePalette{}, ErrNoPixels
	}

	source := toNRGBA(img)
	sampled := downscaleNRGBA(source, normalized.MaxDimension)
	samples := CollectSamples(sampled, normalized.Quality, normalized.AlphaThreshold, normalized.IgnoreNearWhite)

	swatches, err := candidateSwatches(sampled, samples, normalized)
	if err != nil {
		return ThemePalette{}, fmt.Errorf("quantize %s: %w", normalized.Method, err)
	}

	selection := SelectSwatches(swatches)

	theme := ThemePalette{
		Vibrant:      roleColor(selection, RoleVibrant),
		Muted:        roleColor(selection, RoleMuted),
		DarkVibrant:  roleColor(selection, RoleDarkVibrant),
		DarkMuted:    roleColor(selection, RoleDarkMuted),
		LightVibrant: roleColor(selection, RoleLightVibrant),
		LightMuted:   roleColor(selection, RoleLightMuted),
		Swatches:     swatchesToPaletteColors(swatches),
		SourceWidth:  source.Bounds().Dx(),
		SourceHeight: source.Bounds().Dy(),
		SampleWidth:  sampled.Bounds().Dx(),
		SampleHeight: sampled.Bounds().Dy(),
		SampleCount:  len(samples),
		Options:      normalized,
	}
	for _, role := range selection.Roles() {
		if len(theme.Gradient) == 2 {
			break
		}
		theme.Gradient = append(theme.Gradient, *theme.Role(role))
	}

	return theme, nil
}

func candidateSwatches(img *image.NRGBA, samples []RGB, options ExtractOptions) ([]*Swatch, error) {
	switch options.Method {
	case MethodKMeans:
		return kmeansSwatches(samples, options.ColorCount)
	case MethodDominant:
		return dominantSwatches(img, len(samples), options.ColorCount)
	default:
		colorMap, err := Quantize(samples, options.ColorCount)
		if err != nil {
			return nil, err
		}
		if options.SnapBlackWhite {
			colorMap.SnapBlackWhite()
		}
		return colorMap.Swatches(), nil
	}
}

// CollectSamples walks the pixels in row-major order, taking every quality-th
// one, and drops translucent and near-white pixels.
func CollectSamples(img *image.NRGBA, quality int, alphaThreshold int, ignoreNearWhite bool) []RGB {
	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	pixelCount := width * height
	if pixelCount == 0 {
		return nil
	}
	quality = max(quality, 1)

	samples := make([]RGB, 0, pixelCount/quality+1)
	for index := 0; index < pixelCount; index += quality {
		offset := (index/width)*img.Stride + (index%width)*4
		r := img.Pix[offset]
		g := img.Pix[offset+1]
		b := img.Pix[offset+2]
		a := img.Pix[offset+3]

		if int(a) < alphaThreshold {
			continue
		}
		if ignoreNearWhite && r > nearWhiteThreshold && g > nearWhiteThreshold && b > nearWhiteThreshold {
			continue
		}
		samples = append(samples, RGB{R: r, G: g, B: b})
	}

	return samples
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

func downscaleNRGBA(src *image.NRGBA, maxDimension int) *image.NRGBA {
	sourceWidth := src.Bounds().Dx()
	sourceHeight := src.Bounds().Dy()
	longest := max(sourceWidth, sourceHeight)
	if maxDimension <= 0 || longest <= maxDimension {
		return src
	}

	scale := float64(maxDimension) / float64(longest)
	targetWidth := max(int(math.Round(float64(sourceWidth)*scale)), 1)
	targetHeight := max(int(math.Round(float64(sourceHeight)*scale)), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func roleColor(selection Selection, role Role) *PaletteColor {
	swatch, ok := selection.Swatch(role)
	if !ok {
		return nil
	}
	paletteColor := swatch.toPaletteColor()
	paletteColor.Role = role
	return &paletteColor
}

func (s *Swatch) toPaletteColor() PaletteColor {
	hue, saturation, lightness := s.HSL()
	return PaletteColor{
		Hex:            s.Hex(),
		R:              int(s.rgb.R),
		G:              int(s.rgb.G),
		B:              int(s.rgb.B),
		Population:     s.population,
		Hue:            hue,
		Saturation:     saturation,
		Lightness:      lightness,
		TitleTextColor: s.TitleTextColor().Hex(),
		BodyTextColor:  s.BodyTextColor().Hex(),
	}
}

func swatchesToPaletteColors(values []*Swatch) []PaletteColor {
	if len(values) == 0 {
		return nil
	}
	colors := make([]PaletteColor, 0, len(values))
	for _, value := range values {
		colors = append(colors, value.toPaletteColor())
	}
	return colors
}
