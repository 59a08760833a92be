package palette

import "testing"

func TestColorBoxDerivedValues(t *testing.T) {
	t.Parallel()

	samples := append(repeatSample(RGB{R: 0, G: 0, B: 0}, 3), repeatSample(RGB{R: 16, G: 0, B: 0}, 1)...)
	histogram := mustHistogram(t, samples)
	box := boxFromSamples(samples, histogram)

	if box.r1 != 0 || box.r2 != 2 || box.g1 != 0 || box.g2 != 0 || box.b1 != 0 || box.b2 != 0 {
		t.Fatalf("unexpected bounds r=%d..%d g=%d..%d b=%d..%d", box.r1, box.r2, box.g1, box.g2, box.b1, box.b2)
	}
	if box.Volume() != 3 {
		t.Fatalf("expected volume 3, got %d", box.Volume())
	}
	if box.Count() != 4 {
		t.Fatalf("expected count 4, got %d", box.Count())
	}

	// r: (3*0.5 + 1*2.5) * 8 / 4 = 8, g and b: 0.5 * 8 = 4
	if got := box.Average(); got != (RGB{R: 8, G: 4, B: 4}) {
		t.Fatalf("unexpected average %+v", got)
	}
}

func TestColorBoxAverageTruncates(t *testing.T) {
	t.Parallel()

	samples := append(repeatSample(RGB{R: 0, G: 0, B: 0}, 2), RGB{R: 8, G: 0, B: 0})
	box := boxFromSamples(samples, mustHistogram(t, samples))

	// r: (2*0.5 + 1*1.5) * 8 / 3 = 6.67
	if got := box.Average().R; got != 6 {
		t.Fatalf("expected truncated red channel 6, got %d", got)
	}
}

func TestColorBoxEmptyAverageFallsBackToMidpoint(t *testing.T) {
	t.Parallel()

	histogram := mustHistogram(t, []RGB{{R: 255, G: 255, B: 255}})
	box := newColorBox(0, 1, 0, 1, 0, 1, histogram)

	if box.Count() != 0 {
		t.Fatalf("expected empty box, got count %d", box.Count())
	}
	if !box.countSet {
		t.Fatal("expected a zero count to be memoized")
	}
	if got := box.Average(); got != (RGB{R: 8, G: 8, B: 8}) {
		t.Fatalf("expected midpoint fallback (8,8,8), got %+v", got)
	}
}

func TestColorBoxSetBoundsInvalidatesCaches(t *testing.T) {
	t.Parallel()

	samples := []RGB{{R: 0, G: 0, B: 0}, {R: 255, G: 0, B: 0}}
	box := boxFromSamples(samples, mustHistogram(t, samples))
	if box.Count() != 2 || box.Volume() != 32 {
		t.Fatalf("unexpected initial count %d volume %d", box.Count(), box.Volume())
	}

	box.setBounds(axisRed, 0, 15)
	if box.Count() != 1 {
		t.Fatalf("expected count 1 after shrinking, got %d", box.Count())
	}
	if box.Volume() != 16 {
		t.Fatalf("expected volume 16 after shrinking, got %d", box.Volume())
	}
	if got := box.Average(); got != (RGB{R: 4, G: 4, B: 4}) {
		t.Fatalf("expected recomputed average (4,4,4), got %+v", got)
	}
}

func TestColorBoxContainsUsesDownsampledCoordinates(t *testing.T) {
	t.Parallel()

	histogram := mustHistogram(t, []RGB{{R: 0, G: 0, B: 0}})
	box := newColorBox(1, 2, 0, 0, 0, 0, histogram)

	if !box.contains(RGB{R: 8, G: 7, B: 0}) {
		t.Fatal("expected (8,7,0) to fall inside r=1..2 g=0 b=0")
	}
	if !box.contains(RGB{R: 23, G: 0, B: 7}) {
		t.Fatal("expected (23,0,7) to fall inside the box")
	}
	if box.contains(RGB{R: 24, G: 0, B: 0}) {
		t.Fatal("expected r=24 (cell 3) to fall outside the box")
	}
	if box.contains(RGB{R: 7, G: 0, B: 0}) {
		t.Fatal("expected r=7 (cell 0) to fall outside the box")
	}
}
