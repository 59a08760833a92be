package palette

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Method selects how candidate swatches are produced before role selection.
type Method string

const (
	MethodMedianCut Method = "mediancut"
	MethodKMeans    Method = "kmeans"
	MethodDominant  Method = "dominant"
)

func ValidMethods() []Method {
	return []Method{MethodMedianCut, MethodKMeans, MethodDominant}
}

func ParseMethod(value string) (Method, error) {
	method := Method(strings.ToLower(strings.TrimSpace(value)))
	if method == "" {
		return MethodMedianCut, nil
	}
	if !method.Valid() {
		return "", fmt.Errorf("unknown method %q", value)
	}
	return method, nil
}

func (m Method) Valid() bool {
	return slices.Contains(ValidMethods(), m)
}

func (m Method) String() string {
	return string(m)
}

// kmeansSwatches clusters the samples directly in RGB. Cluster seeding is
// random, so unlike median cut the result is not reproducible.
func kmeansSwatches(samples []RGB, colorCount int) ([]*Swatch, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ErrNotQuantizable)
	}
	if colorCount < MinColorCount || colorCount > MaxColorCount {
		return nil, fmt.Errorf("%w: color count %d outside [%d, %d]", ErrNotQuantizable, colorCount, MinColorCount, MaxColorCount)
	}

	dataset := make(clusters.Observations, 0, len(samples))
	for _, sample := range samples {
		dataset = append(dataset, clusters.Coordinates{
			float64(sample.R) / 255,
			float64(sample.G) / 255,
			float64(sample.B) / 255,
		})
	}

	partitioned, err := kmeans.New().Partition(dataset, min(colorCount, len(dataset)))
	if err != nil {
		return nil, fmt.Errorf("partition samples: %w", err)
	}

	slices.SortStableFunc(partitioned, func(left clusters.Cluster, right clusters.Cluster) int {
		return cmp.Compare(len(right.Observations), len(left.Observations))
	})

	swatches := make([]*Swatch, 0, len(partitioned))
	for _, cluster := range partitioned {
		if len(cluster.Observations) == 0 || len(cluster.Center) < 3 {
			continue
		}
		rgb := RGB{
			R: unitToChannel(cluster.Center[0]),
			G: unitToChannel(cluster.Center[1]),
			B: unitToChannel(cluster.Center[2]),
		}
		swatches = append(swatches, newIndexedSwatch(rgb, len(cluster.Observations), len(swatches)))
	}

	return swatches, nil
}

// dominantSwatches lets dominantcolor pick the colors and scales its weights
// back to sample counts.
func dominantSwatches(img image.Image, sampleCount int, colorCount int) ([]*Swatch, error) {
	if sampleCount == 0 {
		return nil, fmt.Errorf("%w: empty sample sequence", ErrNotQuantizable)
	}
	if colorCount < MinColorCount || colorCount > MaxColorCount {
		return nil, fmt.Errorf("%w: color count %d outside [%d, %d]", ErrNotQuantizable, colorCount, MinColorCount, MaxColorCount)
	}

	found := dominantcolor.FindWeight(img, colorCount)
	swatches := make([]*Swatch, 0, len(found))
	for _, candidate := range found {
		rgb := RGB{R: candidate.RGBA.R, G: candidate.RGBA.G, B: candidate.RGBA.B}
		population := int(math.Round(candidate.Weight * float64(sampleCount)))
		swatches = append(swatches, newIndexedSwatch(rgb, population, len(swatches)))
	}

	if len(swatches) == 0 {
		return nil, fmt.Errorf("%w: no dominant colors found", ErrNotQuantizable)
	}
	return swatches, nil
}

func unitToChannel(value float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, value)) * 255))
}
