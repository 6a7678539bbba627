package fuzzy

import "github.com/swanbotanicals/skinmatch/internal/domain"

// Breakpoints for the fixed skin categories. Oily is driven by hydration,
// not by the oiliness trait; downstream scores are calibrated to this.
var (
	dryBreakpoints       = [4]float64{0, 0, 30, 50}
	normalBreakpoints    = [3]float64{30, 50, 70}
	oilyBreakpoints      = [4]float64{50, 70, 100, 100}
	sensitiveBreakpoints = [4]float64{60, 80, 100, 100}
	acneBreakpoints      = [4]float64{50, 70, 100, 100}
)

// Fuzzify maps a skin profile to its membership vector.
func Fuzzify(p domain.SkinProfile) domain.FuzzyMembership {
	return domain.FuzzyMembership{
		Dry:       trap(p.Hydration, dryBreakpoints),
		Normal:    Triangular(p.Hydration, normalBreakpoints[0], normalBreakpoints[1], normalBreakpoints[2]),
		Oily:      trap(p.Hydration, oilyBreakpoints),
		Sensitive: trap(p.Sensitivity, sensitiveBreakpoints),
		AcneProne: trap(p.AcneLevel, acneBreakpoints),
	}
}

func trap(x float64, bp [4]float64) float64 {
	return Trapezoidal(x, bp[0], bp[1], bp[2], bp[3])
}
