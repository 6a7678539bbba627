package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/fuzzy"
	"github.com/swanbotanicals/skinmatch/internal/logging"
)

// Factor weights for the aggregate match score (sum = 1.00)
const (
	weightHydration        = 0.25
	weightOiliness         = 0.20
	weightSensitivity      = 0.25
	weightAcne             = 0.15
	weightIngredientSafety = 0.10
	weightPrice            = 0.05
)

// Factor levels
const (
	benefitPresent       = 1.0 // product advertises the benefit
	benefitAbsent        = 0.3 // product does not advertise it
	sensitiveGate        = 0.6 // sensitive membership above which harsh ingredients are penalised
	sensitivityPenalised = 0.2
	sensitivityOK        = 0.9
	safetyHarsh          = 0.5
	safetyClean          = 1.0
)

// DefaultPricePreference is the price affinity used when the caller has none.
const DefaultPricePreference = 50.0

var (
	hydrationKeywords  = []string{"hydrat", "moistur"}
	oilControlKeywords = []string{"oil", "mattif"}
	acneKeywords       = []string{"acne", "blemish"}
	harshIngredients   = []string{"fragrance", "alcohol", "sulfate", "paraben"}
)

// ScoreProduct computes how well a product suits a profile.
// It is pure: identical inputs always give identical output.
func ScoreProduct(profile domain.SkinProfile, product domain.Product, pricePreference float64) domain.ProductMatch {
	return scoreWithMembership(fuzzy.Fuzzify(profile), product, pricePreference)
}

func scoreWithMembership(m domain.FuzzyMembership, product domain.Product, pricePreference float64) domain.ProductMatch {
	hydrationMatch := 1 - math.Abs(m.Dry-benefitLevel(product.Benefits, hydrationKeywords))
	oilinessMatch := 1 - math.Abs(m.Oily-benefitLevel(product.Benefits, oilControlKeywords))
	acneMatch := 1 - math.Abs(m.AcneProne-benefitLevel(product.Benefits, acneKeywords))

	harsh := containsAny(product.Ingredients, harshIngredients)

	sensitivityMatch := sensitivityOK
	if m.Sensitive > sensitiveGate && harsh {
		sensitivityMatch = sensitivityPenalised
	}

	ingredientSafety := safetyClean
	if harsh {
		ingredientSafety = safetyHarsh
	}

	// Loose affinity, not a currency comparison.
	priceMatch := 1 - math.Abs(pricePreference-product.Price/100)/100

	score := hydrationMatch*weightHydration +
		oilinessMatch*weightOiliness +
		sensitivityMatch*weightSensitivity +
		acneMatch*weightAcne +
		ingredientSafety*weightIngredientSafety +
		priceMatch*weightPrice

	return domain.ProductMatch{
		Product:    product,
		MatchScore: clamp(score, 0, 1),
		Factors: domain.MatchFactors{
			HydrationMatch:   hydrationMatch,
			OilinessMatch:    oilinessMatch,
			SensitivityMatch: sensitivityMatch,
			AcneMatch:        acneMatch,
			IngredientSafety: ingredientSafety,
		},
	}
}

// benefitLevel returns benefitPresent when any phrase contains any keyword.
func benefitLevel(phrases, keywords []string) float64 {
	if containsAny(phrases, keywords) {
		return benefitPresent
	}
	return benefitAbsent
}

// containsAny is a case-insensitive substring test of keywords against phrases.
// "oil" matches "Oil-free" and "Soil" alike.
func containsAny(phrases, keywords []string) bool {
	for _, phrase := range phrases {
		lower := strings.ToLower(phrase)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	PricePreference    *float64 // nil selects DefaultPricePreference; zero is a valid affinity
	EnableDebugLogging bool
}

// MatchingService ranks catalog products against a skin profile
type MatchingService struct {
	pricePreference    float64
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	pref := DefaultPricePreference
	if config.PricePreference != nil {
		pref = *config.PricePreference
	}

	return &MatchingService{
		pricePreference:    pref,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// PricePreference returns the configured default price affinity.
func (s *MatchingService) PricePreference() float64 {
	return s.pricePreference
}

// Score scores one product with the configured price preference.
func (s *MatchingService) Score(profile domain.SkinProfile, product domain.Product) domain.ProductMatch {
	return ScoreProduct(profile, product, s.pricePreference)
}

// FindBestMatch returns the highest-scoring product in the given category
// (case-insensitive). The first product wins ties. It returns
// domain.ErrProductNotFound when the category has no products.
func (s *MatchingService) FindBestMatch(
	ctx context.Context,
	profile domain.SkinProfile,
	category string,
	products []domain.Product,
) (*domain.ProductMatch, error) {
	membership := fuzzy.Fuzzify(profile)

	var bestMatch *domain.ProductMatch
	highestScore := -1.0 // any score, including 0, beats this

	for _, product := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !strings.EqualFold(product.Category, category) {
			continue
		}

		match := scoreWithMembership(membership, product, s.pricePreference)

		if s.enableDebugLogging {
			logging.Ctx(ctx).Debug().
				Str("category", category).
				Str("product", product.ID).
				Float64("score", match.MatchScore).
				Interface("factors", match.Factors).
				Msg("scored candidate")
		}

		if match.MatchScore > highestScore {
			highestScore = match.MatchScore
			m := match
			bestMatch = &m
		}
	}

	if bestMatch == nil {
		return nil, domain.ErrProductNotFound
	}

	return bestMatch, nil
}

// SortMatches orders matches by descending score. Equal scores keep their input order.
func SortMatches(matches []domain.ProductMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
}
