package usecase

import (
	"context"
	"errors"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

// routineStep binds a routine slot to a catalog category.
// Threshold is carried with the step but never consulted: selection and
// frequency bands ignore it.
type routineStep struct {
	Step      string
	Category  string
	Threshold float64
}

var routineSteps = []routineStep{
	{Step: "Cleanser", Category: "cleanser", Threshold: 0.7},
	{Step: "Toner", Category: "toner", Threshold: 0.6},
	{Step: "Serum", Category: "serum", Threshold: 0.8},
	{Step: "Moisturizer", Category: "moisturizer", Threshold: 0.7},
	{Step: "Sunscreen", Category: "sunscreen", Threshold: 0.9},
}

// Frequency band lower bounds
const (
	occasionalFloor = 0.5
	regularFloor    = 0.7
	dailyFloor      = 0.85
)

// AssembleRoutine picks the best product for each fixed routine step using
// the default price preference.
func AssembleRoutine(profile domain.SkinProfile, catalog []domain.Product) []domain.RoutineStep {
	steps, _ := NewMatchingService(MatchConfig{}).AssembleRoutine(context.Background(), profile, catalog)
	return steps
}

// AssembleRoutine builds the five-step routine. The only error is ctx cancellation.
func (s *MatchingService) AssembleRoutine(
	ctx context.Context,
	profile domain.SkinProfile,
	catalog []domain.Product,
) ([]domain.RoutineStep, error) {
	routine := make([]domain.RoutineStep, 0, len(routineSteps))

	for _, def := range routineSteps {
		step := domain.RoutineStep{Step: def.Step}

		match, err := s.FindBestMatch(ctx, profile, def.Category, catalog)
		switch {
		case err == nil:
			product := match.Product
			step.Product = &product
			step.Suitability = match.MatchScore
		case errors.Is(err, domain.ErrProductNotFound):
			// empty slot: no product, zero suitability
		default:
			return nil, err
		}

		step.Frequency = ClassifyFrequency(step.Suitability)
		step.Guidance = step.Frequency.Guidance()
		routine = append(routine, step)
	}

	return routine, nil
}

// ClassifyFrequency maps a suitability score to a usage frequency:
// < 0.5 avoid, < 0.7 occasionally, < 0.85 regularly, otherwise daily.
func ClassifyFrequency(suitability float64) domain.Frequency {
	switch {
	case suitability < occasionalFloor:
		return domain.FrequencyAvoid
	case suitability < regularFloor:
		return domain.FrequencyOccasionally
	case suitability < dailyFloor:
		return domain.FrequencyRegularly
	default:
		return domain.FrequencyDaily
	}
}
