package palette

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{R: 0, G: 0, B: 0}
)

const (
	titleTextLumaThreshold = 200
	bodyTextLumaThreshold  = 150
)

// Swatch is a representative color with its population. HSL and luma are
// derived on first use and cached; swatches are safe for concurrent reads.
type Swatch struct {
	rgb        RGB
	population int
	index      int

	hslOnce    sync.Once
	hue        float64
	saturation float64
	lightness  float64

	lumaOnce sync.Once
	luma     float64
}

// NewSwatch builds a swatch that does not belong to a palette.
func NewSwatch(rgb RGB, population int) *Swatch {
	return newIndexedSwatch(rgb, population, -1)
}

func newIndexedSwatch(rgb RGB, population int, index int) *Swatch {
	return &Swatch{rgb: rgb, population: population, index: index}
}

func (s *Swatch) RGB() RGB {
	return s.rgb
}

func (s *Swatch) Population() int {
	return s.population
}

// Index is the palette position the swatch was created from, or -1 for
// synthesized swatches.
func (s *Swatch) Index() int {
	return s.index
}

func (s *Swatch) Hex() string {
	return s.rgb.Hex()
}

// HSL returns hue in degrees [0, 360), saturation and lightness in [0, 1].
func (s *Swatch) HSL() (float64, float64, float64) {
	s.hslOnce.Do(func() {
		s.hue, s.saturation, s.lightness = s.rgb.colorful().Hsl()
	})
	return s.hue, s.saturation, s.lightness
}

func (s *Swatch) Saturation() float64 {
	_, saturation, _ := s.HSL()
	return saturation
}

func (s *Swatch) Lightness() float64 {
	_, _, lightness := s.HSL()
	return lightness
}

// Luma is the 299/587/114 weighted brightness on a 0-255 scale.
func (s *Swatch) Luma() float64 {
	s.lumaOnce.Do(func() {
		s.luma = float64(int(s.rgb.R)*299+int(s.rgb.G)*587+int(s.rgb.B)*114) / 1000
	})
	return s.luma
}

func (s *Swatch) TitleTextColor() RGB {
	if s.Luma() < titleTextLumaThreshold {
		return White
	}
	return Black
}

func (s *Swatch) BodyTextColor() RGB {
	if s.Luma() < bodyTextLumaThreshold {
		return White
	}
	return Black
}

// Hex renders #rrggbb in lower case.
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// rgbFromHSL converts back to 8-bit channels, rounding to nearest.
func rgbFromHSL(hue float64, saturation float64, lightness float64) RGB {
	r, g, b := colorful.Hsl(hue, saturation, lightness).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}
