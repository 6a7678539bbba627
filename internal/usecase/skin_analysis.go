package usecase

import (
	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/fuzzy"
)

// recommendationGate is the membership above which a trait drives advice.
const recommendationGate = 0.6

// AnalyzeSkin summarizes a profile's memberships and derives care advice.
func AnalyzeSkin(profile domain.SkinProfile) domain.SkinAnalysis {
	m := fuzzy.Fuzzify(profile)

	var recs []string
	if m.Dry > recommendationGate {
		recs = append(recs, "Focus on hydrating products")
	}
	if m.Oily > recommendationGate {
		recs = append(recs, "Look for oil-control formulas")
	}
	if m.Sensitive > recommendationGate {
		recs = append(recs, "Choose fragrance-free options")
	}
	if m.AcneProne > recommendationGate {
		recs = append(recs, "Consider acne-fighting ingredients")
	}
	if m.Dry <= recommendationGate && m.Oily <= recommendationGate {
		recs = append(recs, "Your skin is balanced - maintain with gentle products")
	}

	return domain.SkinAnalysis{
		Profile:    profile,
		Membership: m,
		Percentages: map[string]int{
			"dry":       domain.Percent(m.Dry),
			"normal":    domain.Percent(m.Normal),
			"oily":      domain.Percent(m.Oily),
			"sensitive": domain.Percent(m.Sensitive),
			"acneProne": domain.Percent(m.AcneProne),
		},
		Recommendations: recs,
	}
}
