package palette

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

type Role string

const (
	RoleVibrant      Role = "vibrant"
	RoleMuted        Role = "muted"
	RoleDarkVibrant  Role = "darkVibrant"
	RoleDarkMuted    Role = "darkMuted"
	RoleLightVibrant Role = "lightVibrant"
	RoleLightMuted   Role = "lightMuted"
)

const (
	TargetDarkLightness   = 0.26
	MaxDarkLightness      = 0.45
	MinLightLightness     = 0.55
	TargetLightLightness  = 0.74
	MinNormalLightness    = 0.3
	TargetNormalLightness = 0.5
	MaxNormalLightness    = 0.7

	TargetMutedSaturation   = 0.3
	MaxMutedSaturation      = 0.4
	TargetVibrantSaturation = 1.0
	MinVibrantSaturation    = 0.35

	WeightSaturation = 3
	WeightLightness  = 6
	WeightPopulation = 1
)

// RoleTarget describes the lightness and saturation a role looks for.
type RoleTarget struct {
	Role             Role
	TargetLightness  float64
	MinLightness     float64
	MaxLightness     float64
	TargetSaturation float64
	MinSaturation    float64
	MaxSaturation    float64
}

// RoleTargets is listed in selection order; later roles cannot claim a
// swatch taken by an earlier one.
var RoleTargets = []RoleTarget{
	{RoleVibrant, TargetNormalLightness, MinNormalLightness, MaxNormalLightness, TargetVibrantSaturation, MinVibrantSaturation, 1},
	{RoleLightVibrant, TargetLightLightness, MinLightLightness, 1, TargetVibrantSaturation, MinVibrantSaturation, 1},
	{RoleDarkVibrant, TargetDarkLightness, 0, MaxDarkLightness, TargetVibrantSaturation, MinVibrantSaturation, 1},
	{RoleMuted, TargetNormalLightness, MinNormalLightness, MaxNormalLightness, TargetMutedSaturation, 0, MaxMutedSaturation},
	{RoleLightMuted, TargetLightLightness, MinLightLightness, 1, TargetMutedSaturation, 0, MaxMutedSaturation},
	{RoleDarkMuted, TargetDarkLightness, 0, MaxDarkLightness, TargetMutedSaturation, 0, MaxMutedSaturation},
}

var displayOrder = []Role{RoleVibrant, RoleMuted, RoleDarkVibrant, RoleDarkMuted, RoleLightVibrant, RoleLightMuted}

func (t RoleTarget) accepts(s *Swatch) bool {
	saturation := s.Saturation()
	lightness := s.Lightness()
	return saturation >= t.MinSaturation && saturation <= t.MaxSaturation &&
		lightness >= t.MinLightness && lightness <= t.MaxLightness
}

func (t RoleTarget) score(s *Swatch, maxPopulation int) float64 {
	populationShare := 0.0
	if maxPopulation > 0 {
		populationShare = float64(s.Population()) / float64(maxPopulation)
	}

	values := []float64{
		invertDiff(s.Saturation(), t.TargetSaturation),
		invertDiff(s.Lightness(), t.TargetLightness),
		populationShare,
	}
	weights := []float64{WeightSaturation, WeightLightness, WeightPopulation}
	return stat.Mean(values, weights)
}

func invertDiff(value float64, target float64) float64 {
	return 1 - math.Abs(value-target)
}

// Selection maps roles to the swatches chosen for them.
type Selection struct {
	swatches map[Role]*Swatch
}

func (s Selection) Swatch(role Role) (*Swatch, bool) {
	swatch, ok := s.swatches[role]
	return swatch, ok
}

// Roles lists the present roles in display order.
func (s Selection) Roles() []Role {
	roles := make([]Role, 0, len(displayOrder))
	for _, role := range displayOrder {
		if _, ok := s.swatches[role]; ok {
			roles = append(roles, role)
		}
	}
	return roles
}

func (s Selection) Len() int {
	return len(s.swatches)
}

// SelectSwatches picks the best swatch for every role and synthesizes the
// vibrant/dark-vibrant pair from each other when only one of them matched.
func SelectSwatches(swatches []*Swatch) Selection {
	selection := Selection{swatches: make(map[Role]*Swatch, len(RoleTargets))}

	maxPopulation := 0
	for _, swatch := range swatches {
		maxPopulation = max(maxPopulation, swatch.Population())
	}

	claimed := make(map[int]struct{}, len(RoleTargets))
	for _, target := range RoleTargets {
		best, key, ok := findRoleSwatch(swatches, target, maxPopulation, claimed)
		if !ok {
			continue
		}
		selection.swatches[target.Role] = best
		claimed[key] = struct{}{}
	}

	synthesizeMissing(selection.swatches)
	return selection
}

func findRoleSwatch(swatches []*Swatch, target RoleTarget, maxPopulation int, claimed map[int]struct{}) (*Swatch, int, bool) {
	var best *Swatch
	bestKey := 0
	bestScore := 0.0

	for position, swatch := range swatches {
		key := swatchKey(swatch, position)
		if _, taken := claimed[key]; taken {
			continue
		}
		if !target.accepts(swatch) {
			continue
		}

		score := target.score(swatch, maxPopulation)
		if best == nil || score > bestScore {
			best = swatch
			bestKey = key
			bestScore = score
		}
	}

	return best, bestKey, best != nil
}

// swatchKey identifies a swatch by its palette index. Free-standing swatches
// fall back to their list position so they are never all treated as one.
func swatchKey(swatch *Swatch, position int) int {
	if swatch.Index() >= 0 {
		return swatch.Index()
	}
	return -1 - position
}

func synthesizeMissing(chosen map[Role]*Swatch) {
	vibrant, hasVibrant := chosen[RoleVibrant]
	darkVibrant, hasDarkVibrant := chosen[RoleDarkVibrant]

	if !hasVibrant && hasDarkVibrant {
		chosen[RoleVibrant] = withLightness(darkVibrant, TargetNormalLightness)
		return
	}
	if hasVibrant && !hasDarkVibrant {
		chosen[RoleDarkVibrant] = withLightness(vibrant, TargetDarkLightness)
	}
}

func withLightness(source *Swatch, lightness float64) *Swatch {
	hue, saturation, _ := source.HSL()
	return NewSwatch(rgbFromHSL(hue, saturation, lightness), 0)
}

// DisplayOrder lists every role in presentation order.
func DisplayOrder() []Role {
	return append([]Role(nil), displayOrder...)
}
