package domain

import "math"

// Product is a catalog entry. The engine only reads it.
type Product struct {
	ID              string   `json:"id" yaml:"id" validate:"required"`
	Name            string   `json:"name" yaml:"name" validate:"required"`
	Category        string   `json:"category" yaml:"category" validate:"required"`
	Price           float64  `json:"price" yaml:"price"`
	Description     string   `json:"description" yaml:"description"`
	Ingredients     []string `json:"ingredients" yaml:"ingredients"`
	Benefits        []string `json:"benefits" yaml:"benefits"`
	ImageURL        string   `json:"imageUrl" yaml:"imageUrl"`
	TargetSkinTypes []string `json:"targetSkinTypes" yaml:"targetSkinTypes"` // not used by scoring
}

// MatchFactors is the per-factor breakdown of a match score, each in [0,1].
// The price factor feeds the aggregate but is not reported here.
type MatchFactors struct {
	HydrationMatch   float64 `json:"hydrationMatch"`
	OilinessMatch    float64 `json:"oilinessMatch"`
	SensitivityMatch float64 `json:"sensitivityMatch"`
	AcneMatch        float64 `json:"acneMatch"`
	IngredientSafety float64 `json:"ingredientSafety"`
}

// ProductMatch pairs a product with its aggregate match score.
type ProductMatch struct {
	Product    Product      `json:"product"`
	MatchScore float64      `json:"matchScore"`
	Factors    MatchFactors `json:"factors"`
}

// MatchBand is a coarse label for how confident a match is.
type MatchBand string

const (
	MatchBandHigh   MatchBand = "high"
	MatchBandMedium MatchBand = "medium"
	MatchBandLow    MatchBand = "low"
)

// Band classifies the match score: >= 0.8 high, >= 0.6 medium, otherwise low.
func (m ProductMatch) Band() MatchBand {
	switch {
	case m.MatchScore >= 0.8:
		return MatchBandHigh
	case m.MatchScore >= 0.6:
		return MatchBandMedium
	default:
		return MatchBandLow
	}
}

// Percent returns the match score as a rounded percentage.
func (m ProductMatch) Percent() int {
	return Percent(m.MatchScore)
}

// Percent rounds a [0,1] degree to a whole percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}

// RankedProduct is a catalog entry with an optional match. Match is nil when
// no profile was supplied.
type RankedProduct struct {
	Product Product       `json:"product"`
	Match   *ProductMatch `json:"match,omitempty"`
	Band    MatchBand     `json:"band,omitempty"`
}

// ProductDetail is a single product with its match and ingredient analysis
// against the caller's profile, when one is available.
type ProductDetail struct {
	Product     Product                 `json:"product"`
	Match       *ProductMatch           `json:"match,omitempty"`
	Ingredients []IngredientSuitability `json:"ingredients,omitempty"`
}
