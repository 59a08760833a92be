package palette

import (
	"errors"
	"fmt"
)

const (
	SignificantBits = 5
	channelShift    = 8 - SignificantBits
	channelLevels   = 1 << SignificantBits
	histogramSize   = 1 << (3 * SignificantBits)
)

var ErrNotQuantizable = errors.New("not quantizable")

// RGB is an 8-bit color triple. It doubles as the input sample type and the
// representative color of a palette entry.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (c RGB) RGBA() (uint32, uint32, uint32, uint32) {
	r := uint32(c.R)
	g := uint32(c.G)
	b := uint32(c.B)
	return r<<8 | r, g<<8 | g, b<<8 | b, 0xffff
}

func (c RGB) downsampled() (int, int, int) {
	return int(c.R) >> channelShift, int(c.G) >> channelShift, int(c.B) >> channelShift
}

func colorIndex(r int, g int, b int) int {
	return (r << (2 * SignificantBits)) + (g << SignificantBits) + b
}

// Histogram counts samples per cell of the downsampled 32x32x32 cube.
type Histogram struct {
	counts []int
	total  int
}

func NewHistogram(samples []RGB) (*Histogram, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ErrNotQuantizable)
	}

	histogram := &Histogram{counts: make([]int, histogramSize)}
	for _, sample := range samples {
		r, g, b := sample.downsampled()
		histogram.counts[colorIndex(r, g, b)]++
	}
	histogram.total = len(samples)

	return histogram, nil
}

// Count returns the population of a downsampled cell. Coordinates outside the
// cube read as zero.
func (h *Histogram) Count(r int, g int, b int) int {
	if r < 0 || g < 0 || b < 0 || r >= channelLevels || g >= channelLevels || b >= channelLevels {
		return 0
	}
	return h.counts[colorIndex(r, g, b)]
}

func (h *Histogram) Total() int {
	return h.total
}

// Colors reports how many distinct cells are populated.
func (h *Histogram) Colors() int {
	populated := 0
	for _, count := range h.counts {
		if count > 0 {
			populated++
		}
	}
	return populated
}
