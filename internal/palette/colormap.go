package palette

import "math"

type paletteEntry struct {
	box   *colorBox
	color RGB
	order int
}

// ColorMap holds the finalized boxes with their representative colors,
// most significant (population times volume) first.
type ColorMap struct {
	entries *priorityQueue[*paletteEntry]
	pushed  int
}

func newColorMap() *ColorMap {
	return &ColorMap{
		entries: newPriorityQueue(func(left *paletteEntry, right *paletteEntry) int {
			leftPriority := left.box.priority()
			rightPriority := right.box.priority()
			if leftPriority != rightPriority {
				if leftPriority < rightPriority {
					return -1
				}
				return 1
			}
			// Earlier entries sort toward the tail so they come first.
			return right.order - left.order
		}),
	}
}

func (m *ColorMap) push(box *colorBox) {
	m.entries.push(&paletteEntry{box: box, color: box.Average(), order: m.pushed})
	m.pushed++
}

func (m *ColorMap) Size() int {
	return m.entries.size()
}

func (m *ColorMap) ordered() []*paletteEntry {
	return m.entries.descending()
}

// Palette returns the representative colors in significance order.
func (m *ColorMap) Palette() []RGB {
	entries := m.ordered()
	colors := make([]RGB, 0, len(entries))
	for _, entry := range entries {
		colors = append(colors, entry.color)
	}
	return colors
}

// Swatches wraps every entry as a swatch whose index is its palette position.
func (m *ColorMap) Swatches() []*Swatch {
	entries := m.ordered()
	swatches := make([]*Swatch, 0, len(entries))
	for index, entry := range entries {
		swatches = append(swatches, newIndexedSwatch(entry.color, entry.box.Count(), index))
	}
	return swatches
}

// Classify maps a sample to the color of the first box containing it, or to
// the nearest palette color when no box does.
func (m *ColorMap) Classify(sample RGB) RGB {
	entries := m.ordered()
	for _, entry := range entries {
		if entry.box.contains(sample) {
			return entry.color
		}
	}
	return nearestColor(entries, sample)
}

func nearestColor(entries []*paletteEntry, sample RGB) RGB {
	var nearest RGB
	bestDistance := math.Inf(1)

	for _, entry := range entries {
		dr := float64(sample.R) - float64(entry.color.R)
		dg := float64(sample.G) - float64(entry.color.G)
		db := float64(sample.B) - float64(entry.color.B)
		distance := math.Sqrt(dr*dr + dg*dg + db*db)
		if distance < bestDistance {
			bestDistance = distance
			nearest = entry.color
		}
	}

	return nearest
}

// SnapBlackWhite forces the darkest color to pure black when all its channels
// are below 5, and the lightest to pure white when all are above 251.
func (m *ColorMap) SnapBlackWhite() {
	entries := m.ordered()
	if len(entries) == 0 {
		return
	}

	darkest := entries[0]
	lightest := entries[0]
	for _, entry := range entries[1:] {
		if channelSum(entry.color) < channelSum(darkest.color) {
			darkest = entry
		}
		if channelSum(entry.color) > channelSum(lightest.color) {
			lightest = entry
		}
	}

	if darkest.color.R < 5 && darkest.color.G < 5 && darkest.color.B < 5 {
		darkest.color = RGB{R: 0, G: 0, B: 0}
	}
	if lightest.color.R > 251 && lightest.color.G > 251 && lightest.color.B > 251 {
		lightest.color = RGB{R: 255, G: 255, B: 255}
	}
}

func channelSum(c RGB) int {
	return int(c.R) + int(c.G) + int(c.B)
}
