package palette

import "math"

type axis int

const (
	axisRed axis = iota
	axisGreen
	axisBlue
)

// colorBox is an inclusive range of the downsampled cube. Its derived values
// are memoized with explicit flags since a zero count is a legitimate result.
type colorBox struct {
	r1, r2    int
	g1, g2    int
	b1, b2    int
	histogram *Histogram

	count      int
	countSet   bool
	volume     int
	volumeSet  bool
	average    RGB
	averageSet bool
}

func newColorBox(r1, r2, g1, g2, b1, b2 int, histogram *Histogram) *colorBox {
	return &colorBox{
		r1: r1, r2: r2,
		g1: g1, g2: g2,
		b1: b1, b2: b2,
		histogram: histogram,
	}
}

// boxFromSamples spans the observed range of every channel.
func boxFromSamples(samples []RGB, histogram *Histogram) *colorBox {
	rMin, gMin, bMin := channelLevels, channelLevels, channelLevels
	rMax, gMax, bMax := 0, 0, 0

	for _, sample := range samples {
		r, g, b := sample.downsampled()
		rMin = min(rMin, r)
		rMax = max(rMax, r)
		gMin = min(gMin, g)
		gMax = max(gMax, g)
		bMin = min(bMin, b)
		bMax = max(bMax, b)
	}

	return newColorBox(rMin, rMax, gMin, gMax, bMin, bMax, histogram)
}

func (b *colorBox) copy() *colorBox {
	return newColorBox(b.r1, b.r2, b.g1, b.g2, b.b1, b.b2, b.histogram)
}

func (b *colorBox) invalidate() {
	b.countSet = false
	b.volumeSet = false
	b.averageSet = false
}

func (b *colorBox) Volume() int {
	if !b.volumeSet {
		b.volume = max(b.r2-b.r1+1, 0) * max(b.g2-b.g1+1, 0) * max(b.b2-b.b1+1, 0)
		b.volumeSet = true
	}
	return b.volume
}

func (b *colorBox) Count() int {
	if !b.countSet {
		population := 0
		for r := b.r1; r <= b.r2; r++ {
			for g := b.g1; g <= b.g2; g++ {
				for bl := b.b1; bl <= b.b2; bl++ {
					population += b.histogram.Count(r, g, bl)
				}
			}
		}
		b.count = population
		b.countSet = true
	}
	return b.count
}

// Average is the population-weighted centroid scaled back to 8 bits, each
// channel truncated. An empty box falls back to its geometric midpoint.
func (b *colorBox) Average() RGB {
	if b.averageSet {
		return b.average
	}

	const multiplier = 1 << channelShift
	total := 0
	var rSum, gSum, bSum float64

	for r := b.r1; r <= b.r2; r++ {
		for g := b.g1; g <= b.g2; g++ {
			for bl := b.b1; bl <= b.b2; bl++ {
				count := b.histogram.Count(r, g, bl)
				if count == 0 {
					continue
				}
				total += count
				rSum += float64(count) * (float64(r) + 0.5) * multiplier
				gSum += float64(count) * (float64(g) + 0.5) * multiplier
				bSum += float64(count) * (float64(bl) + 0.5) * multiplier
			}
		}
	}

	if total > 0 {
		b.average = RGB{
			R: truncateChannel(rSum / float64(total)),
			G: truncateChannel(gSum / float64(total)),
			B: truncateChannel(bSum / float64(total)),
		}
	} else {
		b.average = RGB{
			R: truncateChannel(multiplier * float64(b.r1+b.r2+1) / 2),
			G: truncateChannel(multiplier * float64(b.g1+b.g2+1) / 2),
			B: truncateChannel(multiplier * float64(b.b1+b.b2+1) / 2),
		}
	}
	b.averageSet = true

	return b.average
}

func (b *colorBox) contains(sample RGB) bool {
	r, g, bl := sample.downsampled()
	return r >= b.r1 && r <= b.r2 &&
		g >= b.g1 && g <= b.g2 &&
		bl >= b.b1 && bl <= b.b2
}

func (b *colorBox) bounds(a axis) (int, int) {
	switch a {
	case axisRed:
		return b.r1, b.r2
	case axisGreen:
		return b.g1, b.g2
	default:
		return b.b1, b.b2
	}
}

// setBounds mutates one axis and drops every memoized value.
func (b *colorBox) setBounds(a axis, low int, high int) {
	switch a {
	case axisRed:
		b.r1, b.r2 = low, high
	case axisGreen:
		b.g1, b.g2 = low, high
	default:
		b.b1, b.b2 = low, high
	}
	b.invalidate()
}

func (b *colorBox) width(a axis) int {
	low, high := b.bounds(a)
	return high - low + 1
}

// priority orders phase two and the final palette.
func (b *colorBox) priority() int {
	return b.Count() * b.Volume()
}

func truncateChannel(value float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Trunc(value))))
}
