package palette

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roleFixtures() map[Role]RGB {
	return map[Role]RGB{
		RoleVibrant:      {R: 255, G: 0, B: 0},
		RoleLightVibrant: {R: 255, G: 128, B: 128},
		RoleDarkVibrant:  {R: 128, G: 0, B: 0},
		RoleMuted:        {R: 128, G: 102, B: 102},
		RoleLightMuted:   {R: 200, G: 190, B: 190},
		RoleDarkMuted:    {R: 60, G: 50, B: 50},
	}
}

func indexedSwatches(colors ...RGB) []*Swatch {
	swatches := make([]*Swatch, 0, len(colors))
	for index, rgb := range colors {
		swatches = append(swatches, newIndexedSwatch(rgb, 10, index))
	}
	return swatches
}

func TestSelectSwatchesFillsEveryRole(t *testing.T) {
	t.Parallel()

	fixtures := roleFixtures()
	var colors []RGB
	for _, target := range RoleTargets {
		colors = append(colors, fixtures[target.Role])
	}

	selection := SelectSwatches(indexedSwatches(colors...))
	if selection.Len() != len(RoleTargets) {
		t.Fatalf("expected %d roles, got %d", len(RoleTargets), selection.Len())
	}

	for role, want := range fixtures {
		swatch, ok := selection.Swatch(role)
		if !ok {
			t.Fatalf("expected role %s to be selected", role)
		}
		if swatch.RGB() != want {
			t.Fatalf("role %s: expected %+v, got %+v", role, want, swatch.RGB())
		}
	}

	want := []Role{RoleVibrant, RoleMuted, RoleDarkVibrant, RoleDarkMuted, RoleLightVibrant, RoleLightMuted}
	if diff := cmp.Diff(want, selection.Roles()); diff != "" {
		t.Fatalf("roles mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectSwatchesClaimsOnce(t *testing.T) {
	t.Parallel()

	// Bright enough for light vibrant too, but vibrant is chosen first.
	selection := SelectSwatches(indexedSwatches(RGB{R: 255, G: 90, B: 90}))

	vibrant, ok := selection.Swatch(RoleVibrant)
	if !ok || vibrant.RGB() != (RGB{R: 255, G: 90, B: 90}) {
		t.Fatalf("expected vibrant to take the only swatch, got %+v", vibrant)
	}
	if _, ok := selection.Swatch(RoleLightVibrant); ok {
		t.Fatal("expected light vibrant to be absent")
	}

	darkVibrant, ok := selection.Swatch(RoleDarkVibrant)
	if !ok {
		t.Fatal("expected dark vibrant to be synthesized")
	}
	if darkVibrant.Population() != 0 || darkVibrant.Index() != -1 {
		t.Fatalf("expected synthesized swatch, got population %d index %d", darkVibrant.Population(), darkVibrant.Index())
	}
	if math.Abs(darkVibrant.Lightness()-TargetDarkLightness) > 0.01 {
		t.Fatalf("expected lightness near %f, got %f", TargetDarkLightness, darkVibrant.Lightness())
	}
	if selection.Len() != 2 {
		t.Fatalf("expected two roles, got %v", selection.Roles())
	}
}

func TestSelectSwatchesFreeStandingSwatchesAreDistinct(t *testing.T) {
	t.Parallel()

	fixtures := roleFixtures()
	swatches := []*Swatch{
		NewSwatch(fixtures[RoleVibrant], 10),
		NewSwatch(fixtures[RoleMuted], 10),
	}

	selection := SelectSwatches(swatches)
	if _, ok := selection.Swatch(RoleMuted); !ok {
		t.Fatal("expected muted to be selected from a free-standing swatch")
	}
}

func TestSelectSwatchesSynthesizesVibrant(t *testing.T) {
	t.Parallel()

	selection := SelectSwatches(indexedSwatches(RGB{R: 128, G: 0, B: 0}))

	vibrant, ok := selection.Swatch(RoleVibrant)
	if !ok {
		t.Fatal("expected vibrant to be synthesized")
	}
	if vibrant.RGB() != (RGB{R: 255, G: 0, B: 0}) {
		t.Fatalf("expected pure red, got %+v", vibrant.RGB())
	}
	if vibrant.Population() != 0 {
		t.Fatalf("expected population 0, got %d", vibrant.Population())
	}
}

func TestSelectSwatchesSynthesizesDarkVibrant(t *testing.T) {
	t.Parallel()

	selection := SelectSwatches(indexedSwatches(RGB{R: 255, G: 0, B: 0}))

	darkVibrant, ok := selection.Swatch(RoleDarkVibrant)
	if !ok {
		t.Fatal("expected dark vibrant to be synthesized")
	}
	got := darkVibrant.RGB()
	if channelDistance(got.R, 133) > 1 || got.G != 0 || got.B != 0 {
		t.Fatalf("expected about (133,0,0), got %+v", got)
	}
}

func TestSelectSwatchesPrefersCloserAndMorePopulous(t *testing.T) {
	t.Parallel()

	swatches := []*Swatch{
		newIndexedSwatch(RGB{R: 255, G: 0, B: 0}, 10, 0),
		newIndexedSwatch(RGB{R: 254, G: 0, B: 0}, 100, 1),
	}

	selection := SelectSwatches(swatches)
	vibrant, _ := selection.Swatch(RoleVibrant)
	if vibrant.Index() != 1 {
		t.Fatalf("expected the populous swatch to win, got index %d", vibrant.Index())
	}
}

func TestSelectSwatchesEmpty(t *testing.T) {
	t.Parallel()

	selection := SelectSwatches(nil)
	if selection.Len() != 0 || len(selection.Roles()) != 0 {
		t.Fatalf("expected empty selection, got %v", selection.Roles())
	}
}

func TestRoleTargetScoreUsesWeightedMean(t *testing.T) {
	t.Parallel()

	target := RoleTargets[0]
	score := target.score(NewSwatch(RGB{R: 255, G: 0, B: 0}, 5), 10)

	// (3*1 + 6*1 + 1*0.5) / 10
	if math.Abs(score-0.95) > 1e-9 {
		t.Fatalf("expected 0.95, got %f", score)
	}
}
