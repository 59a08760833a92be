package palette

import (
	"errors"
	"math"
	"slices"
)

var errUnsplittable = errors.New("box has no population")

// splitBox cuts a box near the population median of its widest axis. It
// returns a single copy when the box cannot be divided into two populated
// halves, and errUnsplittable when the box is empty.
func splitBox(box *colorBox) ([]*colorBox, error) {
	total := box.Count()
	if total == 0 {
		return nil, errUnsplittable
	}
	if total == 1 {
		return []*colorBox{box.copy()}, nil
	}

	for _, a := range axesByWidth(box) {
		if box.width(a) < 2 {
			break
		}
		if low, high, ok := cutAlong(box, a); ok {
			return []*colorBox{low, high}, nil
		}
	}

	return []*colorBox{box.copy()}, nil
}

// axesByWidth orders axes widest first; ties keep red, green, blue order.
func axesByWidth(box *colorBox) []axis {
	axes := []axis{axisRed, axisGreen, axisBlue}
	slices.SortStableFunc(axes, func(left axis, right axis) int {
		return box.width(right) - box.width(left)
	})
	return axes
}

func cutAlong(box *colorBox, a axis) (*colorBox, *colorBox, bool) {
	low, high := box.bounds(a)
	partial, total := partialSums(box, a)

	partialAt := func(coordinate int) int {
		if coordinate < low || coordinate > high {
			return 0
		}
		return partial[coordinate-low]
	}
	lookaheadAt := func(coordinate int) int {
		if coordinate < low || coordinate > high {
			return 0
		}
		return total - partial[coordinate-low]
	}

	for i := low; i <= high; i++ {
		if partialAt(i)*2 <= total {
			continue
		}

		left := i - low
		right := high - i

		var cut int
		if left <= right {
			cut = min(high-1, i+right/2)
		} else {
			cut = max(low, int(math.Trunc(float64(i)-1-float64(left)/2)))
		}

		for partialAt(cut) == 0 {
			cut++
		}
		remaining := lookaheadAt(cut)
		for remaining == 0 && partialAt(cut-1) != 0 {
			cut--
			remaining = lookaheadAt(cut)
		}

		if cut < low || cut >= high || remaining == 0 || partialAt(cut) == 0 {
			return nil, nil, false
		}

		lowBox := box.copy()
		highBox := box.copy()
		lowBox.setBounds(a, low, cut)
		highBox.setBounds(a, cut+1, high)
		return lowBox, highBox, true
	}

	return nil, nil, false
}

// partialSums accumulates the population along one axis, summing over the
// other two. partial[k] covers coordinates low..low+k.
func partialSums(box *colorBox, a axis) ([]int, int) {
	low, high := box.bounds(a)
	partial := make([]int, high-low+1)
	total := 0

	for coordinate := low; coordinate <= high; coordinate++ {
		sum := 0
		switch a {
		case axisRed:
			for g := box.g1; g <= box.g2; g++ {
				for b := box.b1; b <= box.b2; b++ {
					sum += box.histogram.Count(coordinate, g, b)
				}
			}
		case axisGreen:
			for r := box.r1; r <= box.r2; r++ {
				for b := box.b1; b <= box.b2; b++ {
					sum += box.histogram.Count(r, coordinate, b)
				}
			}
		default:
			for r := box.r1; r <= box.r2; r++ {
				for g := box.g1; g <= box.g2; g++ {
					sum += box.histogram.Count(r, g, coordinate)
				}
			}
		}
		total += sum
		partial[coordinate-low] = total
	}

	return partial, total
}
