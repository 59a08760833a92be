package palette

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"
)

func repeatSample(sample RGB, count int) []RGB {
	samples := make([]RGB, count)
	for index := range samples {
		samples[index] = sample
	}
	return samples
}

func randomSamples(seed uint64, count int) []RGB {
	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	samples := make([]RGB, count)
	for index := range samples {
		samples[index] = RGB{
			R: uint8(random.IntN(256)),
			G: uint8(random.IntN(256)),
			B: uint8(random.IntN(256)),
		}
	}
	return samples
}

func mustHistogram(t *testing.T, samples []RGB) *Histogram {
	t.Helper()

	histogram, err := NewHistogram(samples)
	if err != nil {
		t.Fatalf("build histogram: %v", err)
	}
	return histogram
}

// bruteForceCount counts samples falling inside a box without the histogram.
func bruteForceCount(box *colorBox, samples []RGB) int {
	count := 0
	for _, sample := range samples {
		if box.contains(sample) {
			count++
		}
	}
	return count
}

func fillRect(img *image.NRGBA, rect image.Rectangle, fill color.NRGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
}
