package domain

// Frequency is a usage recommendation derived from a suitability score.
type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyRegularly    Frequency = "regularly"
	FrequencyOccasionally Frequency = "occasionally"
	FrequencyAvoid        Frequency = "avoid"
)

// Guidance returns the usage instructions shown next to a routine step.
func (f Frequency) Guidance() string {
	switch f {
	case FrequencyDaily:
		return "Use every morning and evening for best results"
	case FrequencyRegularly:
		return "Use 3-5 times per week"
	case FrequencyOccasionally:
		return "Use 1-2 times per week or as needed"
	default:
		return "This product may not be suitable for your skin type"
	}
}

// RoutineStep is one slot of an assembled care routine.
// Product is nil when the catalog has nothing in the step's category.
type RoutineStep struct {
	Step        string    `json:"step"`
	Product     *Product  `json:"product"`
	Suitability float64   `json:"suitability"`
	Frequency   Frequency `json:"frequency"`
	Guidance    string    `json:"guidance,omitempty"`
}

// IngredientSuitability rates a single ingredient against a profile.
type IngredientSuitability struct {
	Ingredient  string  `json:"ingredient"`
	Suitability float64 `json:"suitability"`
	Reason      string  `json:"reason"`
}

// Recommended reports whether the ingredient is a good fit (suitability >= 0.7).
func (s IngredientSuitability) Recommended() bool {
	return s.Suitability >= 0.7
}

// SentimentResult is a naive review sentiment estimate.
type SentimentResult struct {
	Sentiment  float64 `json:"sentiment"`  // 0 negative, 1 positive
	Confidence float64 `json:"confidence"` // [0.3, 1]
}

// SkinAnalysis summarizes a profile's membership for display.
type SkinAnalysis struct {
	Profile         SkinProfile     `json:"profile"`
	Membership      FuzzyMembership `json:"membership"`
	Percentages     map[string]int  `json:"percentages"`
	Recommendations []string        `json:"recommendations"`
}
