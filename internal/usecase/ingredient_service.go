package usecase

import (
	"math"
	"strings"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/fuzzy"
)

const (
	defaultIngredientScore  = 0.7
	defaultIngredientReason = "Common skincare ingredient"
)

// ingredientRule rates an ingredient whose lowercased name contains Key.
// Each rule bounds its own arithmetic; no clamping is applied afterwards.
type ingredientRule struct {
	Key  string
	Rate func(m domain.FuzzyMembership) (float64, string)
}

// ingredientRules is ordered: the first key contained in the name wins.
var ingredientRules = []ingredientRule{
	{
		Key: "hyaluronic acid",
		Rate: func(m domain.FuzzyMembership) (float64, string) {
			reason := "Good general hydrator"
			if m.Dry > 0.6 {
				reason = "Excellent for dry skin hydration"
			}
			return m.Dry*0.9 + 0.1, reason
		},
	},
	{
		Key: "salicylic acid",
		Rate: func(m domain.FuzzyMembership) (float64, string) {
			reason := "Mild exfoliant"
			switch {
			case m.AcneProne > 0.6:
				reason = "Great for acne-prone skin"
			case m.Sensitive > 0.6:
				reason = "May irritate sensitive skin"
			}
			return m.AcneProne*0.8 + (1-m.Sensitive)*0.2, reason
		},
	},
	{
		Key: "niacinamide",
		Rate: func(domain.FuzzyMembership) (float64, string) {
			return 0.9, "Universal ingredient, suits all skin types"
		},
	},
	{
		Key: "fragrance",
		Rate: func(m domain.FuzzyMembership) (float64, string) {
			reason := "Generally safe"
			if m.Sensitive > 0.6 {
				reason = "Not recommended for sensitive skin"
			}
			return math.Max(0, 1-m.Sensitive), reason
		},
	},
	{
		Key: "retinol",
		Rate: func(m domain.FuzzyMembership) (float64, string) {
			reason := "Powerful anti-aging ingredient"
			if m.Sensitive > 0.5 {
				reason = "May cause irritation"
			}
			return (1 - m.Sensitive) * 0.8, reason
		},
	},
	{
		Key: "vitamin c",
		Rate: func(domain.FuzzyMembership) (float64, string) {
			return 0.85, "Excellent antioxidant for brightening"
		},
	},
}

// EvaluateIngredients rates each ingredient against the profile, one result per input.
func EvaluateIngredients(ingredients []string, profile domain.SkinProfile) []domain.IngredientSuitability {
	membership := fuzzy.Fuzzify(profile)

	results := make([]domain.IngredientSuitability, 0, len(ingredients))
	for _, ingredient := range ingredients {
		results = append(results, rateIngredient(ingredient, membership))
	}
	return results
}

func rateIngredient(ingredient string, m domain.FuzzyMembership) domain.IngredientSuitability {
	lower := strings.ToLower(ingredient)
	for _, rule := range ingredientRules {
		if strings.Contains(lower, rule.Key) {
			score, reason := rule.Rate(m)
			return domain.IngredientSuitability{
				Ingredient:  ingredient,
				Suitability: score,
				Reason:      reason,
			}
		}
	}

	return domain.IngredientSuitability{
		Ingredient:  ingredient,
		Suitability: defaultIngredientScore,
		Reason:      defaultIngredientReason,
	}
}
