package palette

import (
	"cmp"
	"fmt"
	"math"
)

const (
	MinColorCount        = 2
	MaxColorCount        = 256
	MaxIterations        = 1000
	FractionByPopulation = 0.75
)

func compareByCount(left *colorBox, right *colorBox) int {
	return cmp.Compare(left.Count(), right.Count())
}

func compareByPriority(left *colorBox, right *colorBox) int {
	return cmp.Compare(left.priority(), right.priority())
}

// Quantize reduces samples to at most maxColors representative colors using
// a two-phase median cut: first by population, then by population times
// volume.
func Quantize(samples []RGB, maxColors int) (*ColorMap, error) {
	if maxColors < MinColorCount || maxColors > MaxColorCount {
		return nil, fmt.Errorf("%w: color count %d outside [%d, %d]", ErrNotQuantizable, maxColors, MinColorCount, MaxColorCount)
	}

	histogram, err := NewHistogram(samples)
	if err != nil {
		return nil, err
	}

	byCount := newPriorityQueue(compareByCount)
	byCount.push(boxFromSamples(samples, histogram))

	var leaves []*colorBox
	populationTarget := int(math.Ceil(FractionByPopulation * float64(maxColors)))
	leaves = splitUntil(byCount, leaves, populationTarget)

	byPriority := newPriorityQueue(compareByPriority)
	for byCount.size() > 0 {
		box, _ := byCount.pop()
		byPriority.push(box)
	}
	leaves = splitUntil(byPriority, leaves, maxColors)

	colorMap := newColorMap()
	for _, leaf := range leaves {
		colorMap.push(leaf)
	}
	for byPriority.size() > 0 {
		box, _ := byPriority.pop()
		colorMap.push(box)
	}

	return colorMap, nil
}

// splitUntil keeps splitting the top box of queue until queue and leaves
// together hold target boxes, the queue runs dry, or MaxIterations is
// reached. Boxes that cannot be divided further move to leaves.
func splitUntil(queue *priorityQueue[*colorBox], leaves []*colorBox, target int) []*colorBox {
	for iteration := 0; iteration < MaxIterations; iteration++ {
		if queue.size() == 0 || queue.size()+len(leaves) >= target {
			break
		}

		box, _ := queue.pop()
		children, err := splitBox(box)
		if err != nil {
			queue.push(box)
			continue
		}

		if len(children) < 2 {
			leaves = append(leaves, box)
			continue
		}

		queue.push(children[0])
		queue.push(children[1])
	}

	return leaves
}
