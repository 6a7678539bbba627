package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/fuzzy"
	"github.com/swanbotanicals/skinmatch/internal/logging"
	"github.com/swanbotanicals/skinmatch/internal/metrics"
)

// SortOrder selects how ranked products are ordered
type SortOrder string

const (
	SortByMatch SortOrder = "match"
	SortByPrice SortOrder = "price"
	SortByName  SortOrder = "name"
)

// ParseSortOrder parses a sort query value. Empty means match.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByMatch:
		return SortByMatch, nil
	case SortByPrice:
		return SortByPrice, nil
	case SortByName:
		return SortByName, nil
	default:
		return "", fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidRequest, s)
	}
}

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	PricePreference    *float64
	Parallelism        int
	EnableDebugLogging bool
}

// RecommendationService wires the scoring engine to the profile store and catalog
type RecommendationService struct {
	profiles        domain.ProfileStore
	catalog         domain.CatalogRepository
	matchingService *MatchingService
	parallelism     int
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	profiles domain.ProfileStore,
	catalog domain.CatalogRepository,
	config RecommendationServiceConfig,
) *RecommendationService {
	parallelism := config.Parallelism
	if parallelism <= 0 {
		parallelism = 4
	}

	return &RecommendationService{
		profiles: profiles,
		catalog:  catalog,
		matchingService: NewMatchingService(MatchConfig{
			PricePreference:    config.PricePreference,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		parallelism: parallelism,
	}
}

// CreateProfile validates and stores a new profile under a fresh ID.
func (s *RecommendationService) CreateProfile(ctx context.Context, in *domain.ProfileInput) (*domain.StoredProfile, error) {
	profile, err := validateProfileInput(in)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if err := s.profiles.Set(ctx, id, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	logging.Ctx(ctx).Info().Str("profile_id", id).Msg("profile created")
	return storedProfile(id, profile), nil
}

// GetProfile returns a stored profile with its membership.
func (s *RecommendationService) GetProfile(ctx context.Context, id string) (*domain.StoredProfile, error) {
	profile, err := s.loadProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return storedProfile(id, *profile), nil
}

// UpdateProfile replaces an existing profile.
func (s *RecommendationService) UpdateProfile(ctx context.Context, id string, in *domain.ProfileInput) (*domain.StoredProfile, error) {
	profile, err := validateProfileInput(in)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadProfile(ctx, id); err != nil {
		return nil, err
	}

	if err := s.profiles.Set(ctx, id, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return storedProfile(id, profile), nil
}

// DeleteProfile removes a stored profile. Deleting a missing profile is not an error.
func (s *RecommendationService) DeleteProfile(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Membership fuzzifies the referenced profile.
func (s *RecommendationService) Membership(ctx context.Context, ref domain.ProfileRef) (*domain.FuzzyMembership, error) {
	profile, err := s.requireProfile(ctx, ref)
	if err != nil {
		return nil, err
	}
	m := fuzzy.Fuzzify(*profile)
	return &m, nil
}

// SkinAnalysis returns the membership summary and care advice for a profile.
func (s *RecommendationService) SkinAnalysis(ctx context.Context, ref domain.ProfileRef) (*domain.SkinAnalysis, error) {
	profile, err := s.requireProfile(ctx, ref)
	if err != nil {
		return nil, err
	}
	analysis := AnalyzeSkin(*profile)
	return &analysis, nil
}

// RankProducts lists the catalog, scored when a profile is given.
// A nil pricePreference uses the configured default. Without a profile the
// products are unscored and SortByMatch falls back to name order.
func (s *RecommendationService) RankProducts(
	ctx context.Context,
	ref domain.ProfileRef,
	pricePreference *float64,
	order SortOrder,
) ([]domain.RankedProduct, error) {
	profile, err := s.optionalProfile(ctx, ref)
	if err != nil {
		return nil, err
	}

	products, err := s.listCatalog(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]domain.RankedProduct, len(products))
	if profile == nil {
		for i, p := range products {
			ranked[i] = domain.RankedProduct{Product: p}
		}
	} else {
		pref := s.matchingService.PricePreference()
		if pricePreference != nil {
			pref = *pricePreference
		}

		matches, err := s.scoreCatalog(ctx, *profile, products, pref)
		if err != nil {
			return nil, err
		}
		for i := range matches {
			m := matches[i]
			ranked[i] = domain.RankedProduct{Product: m.Product, Match: &m, Band: m.Band()}
		}
	}

	sortRanked(ranked, order)
	return ranked, nil
}

// ProductDetail returns one product with its match and ingredient analysis.
// Match and analysis are omitted when no profile is referenced.
func (s *RecommendationService) ProductDetail(ctx context.Context, productID string, ref domain.ProfileRef) (*domain.ProductDetail, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, catalogError(err)
	}

	detail := &domain.ProductDetail{Product: *product}

	profile, err := s.optionalProfile(ctx, ref)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		match := s.matchingService.Score(*profile, *product)
		metrics.ProductsScored.Inc()
		detail.Match = &match
		detail.Ingredients = EvaluateIngredients(product.Ingredients, *profile)
	}

	return detail, nil
}

// Routine assembles the care routine for a profile over the current catalog.
func (s *RecommendationService) Routine(ctx context.Context, ref domain.ProfileRef) ([]domain.RoutineStep, error) {
	profile, err := s.requireProfile(ctx, ref)
	if err != nil {
		return nil, err
	}

	products, err := s.listCatalog(ctx)
	if err != nil {
		return nil, err
	}

	// Routine scoring always uses the default price preference.
	steps, err := NewMatchingService(MatchConfig{
		EnableDebugLogging: s.matchingService.enableDebugLogging,
	}).AssembleRoutine(ctx, *profile, products)
	if err != nil {
		return nil, err
	}

	for _, step := range steps {
		metrics.RoutineSteps.WithLabelValues(string(step.Frequency)).Inc()
	}
	return steps, nil
}

// AnalyzeIngredients rates arbitrary ingredient names against a profile.
func (s *RecommendationService) AnalyzeIngredients(
	ctx context.Context,
	ref domain.ProfileRef,
	ingredients []string,
) ([]domain.IngredientSuitability, error) {
	profile, err := s.requireProfile(ctx, ref)
	if err != nil {
		return nil, err
	}
	return EvaluateIngredients(ingredients, *profile), nil
}

// Sentiment estimates review sentiment.
func (s *RecommendationService) Sentiment(text, skinType string) domain.SentimentResult {
	return EstimateSentiment(text, skinType)
}

// scoreCatalog scores every product concurrently. Output order matches input order.
func (s *RecommendationService) scoreCatalog(
	ctx context.Context,
	profile domain.SkinProfile,
	products []domain.Product,
	pricePreference float64,
) ([]domain.ProductMatch, error) {
	membership := fuzzy.Fuzzify(profile)
	matches := make([]domain.ProductMatch, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)

	for i := range products {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches[i] = scoreWithMembership(membership, products[i], pricePreference)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.ProductsScored.Add(float64(len(products)))
	return matches, nil
}

func (s *RecommendationService) listCatalog(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, catalogError(err)
	}
	return products, nil
}

// requireProfile resolves a reference that must name a profile.
func (s *RecommendationService) requireProfile(ctx context.Context, ref domain.ProfileRef) (*domain.SkinProfile, error) {
	if ref.IsEmpty() {
		return nil, fmt.Errorf("%w: profile or profileId is required", domain.ErrInvalidRequest)
	}
	return s.optionalProfile(ctx, ref)
}

// optionalProfile resolves a reference; an empty reference yields nil, nil.
func (s *RecommendationService) optionalProfile(ctx context.Context, ref domain.ProfileRef) (*domain.SkinProfile, error) {
	if ref.Profile != nil {
		profile, err := validateProfileInput(ref.Profile)
		if err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if ref.ProfileID == "" {
		return nil, nil
	}
	return s.loadProfile(ctx, ref.ProfileID)
}

func (s *RecommendationService) loadProfile(ctx context.Context, id string) (*domain.SkinProfile, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return profile, nil
}

func validateProfileInput(in *domain.ProfileInput) (domain.SkinProfile, error) {
	if in == nil {
		return domain.SkinProfile{}, domain.ErrInvalidRequest
	}
	if err := in.Validate(); err != nil {
		return domain.SkinProfile{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return in.ToProfile(), nil
}

func storedProfile(id string, profile domain.SkinProfile) *domain.StoredProfile {
	return &domain.StoredProfile{
		ID:         id,
		Profile:    profile,
		Membership: fuzzy.Fuzzify(profile),
	}
}

func catalogError(err error) error {
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
}

func sortRanked(ranked []domain.RankedProduct, order SortOrder) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if order == SortByMatch && a.Match != nil && b.Match != nil {
			return a.Match.MatchScore > b.Match.MatchScore
		}
		if order == SortByPrice {
			return a.Product.Price < b.Product.Price
		}
		return compareNames(a.Product.Name, b.Product.Name) < 0
	})
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
