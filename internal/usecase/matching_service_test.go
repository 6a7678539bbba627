package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

var (
	dryProfile       = domain.SkinProfile{Hydration: 10, Oiliness: 50, Sensitivity: 20, AcneLevel: 10}
	sensitiveProfile = domain.SkinProfile{Hydration: 50, Oiliness: 40, Sensitivity: 90, AcneLevel: 10}
)

func TestNewMatchingService(t *testing.T) {
	t.Run("uses provided price preference", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{PricePreference: floatPtr(20)})
		if svc.PricePreference() != 20 {
			t.Errorf("PricePreference() = %v, want 20", svc.PricePreference())
		}
	})

	t.Run("keeps an explicit zero price preference", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{PricePreference: floatPtr(0)})
		if svc.PricePreference() != 0 {
			t.Errorf("PricePreference() = %v, want 0", svc.PricePreference())
		}

		product := domain.Product{Price: 30}
		want := ScoreProduct(dryProfile, product, 0)
		assert.Equal(t, want, svc.Score(dryProfile, product))
	})

	t.Run("uses default price preference when unset", func(t *testing.T) {
		svc := NewMatchingService(MatchConfig{})
		if svc.PricePreference() != DefaultPricePreference {
			t.Errorf("PricePreference() = %v, want %v", svc.PricePreference(), DefaultPricePreference)
		}
	})
}

func TestScoreProduct(t *testing.T) {
	t.Run("hydrating product fully matches dry skin", func(t *testing.T) {
		product := domain.Product{
			ID:          "serum-1",
			Benefits:    []string{"Deeply Hydrating Serum"},
			Ingredients: []string{"Water", "Glycerin"},
		}

		match := ScoreProduct(dryProfile, product, DefaultPricePreference)

		assert.Equal(t, 1.0, match.Factors.HydrationMatch)
		assert.Equal(t, 0.9, match.Factors.SensitivityMatch)
		assert.Equal(t, 1.0, match.Factors.IngredientSafety)
	})

	t.Run("harsh ingredient with sensitive skin is penalised", func(t *testing.T) {
		product := domain.Product{
			ID:          "toner-1",
			Ingredients: []string{"Water", "Fragrance"},
		}

		match := ScoreProduct(sensitiveProfile, product, DefaultPricePreference)

		assert.Equal(t, 0.2, match.Factors.SensitivityMatch)
		assert.Equal(t, 0.5, match.Factors.IngredientSafety)
	})

	t.Run("harsh ingredient without sensitivity only lowers safety", func(t *testing.T) {
		product := domain.Product{Ingredients: []string{"Denatured ALCOHOL"}}

		match := ScoreProduct(dryProfile, product, DefaultPricePreference)

		assert.Equal(t, 0.9, match.Factors.SensitivityMatch)
		assert.Equal(t, 0.5, match.Factors.IngredientSafety)
	})

	t.Run("sensitivity gate is strictly above 0.6", func(t *testing.T) {
		// sensitivity 72 gives membership exactly 0.6
		profile := domain.SkinProfile{Hydration: 50, Sensitivity: 72}
		product := domain.Product{Ingredients: []string{"Sodium Lauryl Sulfate"}}

		match := ScoreProduct(profile, product, DefaultPricePreference)

		assert.Equal(t, 0.9, match.Factors.SensitivityMatch)
	})

	t.Run("computes weighted aggregate", func(t *testing.T) {
		product := domain.Product{
			Price:       30,
			Benefits:    []string{"Deeply Hydrating"},
			Ingredients: []string{"Water"},
		}

		match := ScoreProduct(dryProfile, product, DefaultPricePreference)

		// 0.25*1 + 0.20*0.7 + 0.25*0.9 + 0.15*0.7 + 0.10*1 + 0.05*(1-|50-0.3|/100)
		assert.InDelta(t, 0.84515, match.MatchScore, 1e-9)
		assert.InDelta(t, 0.7, match.Factors.OilinessMatch, 1e-9)
		assert.InDelta(t, 0.7, match.Factors.AcneMatch, 1e-9)
	})

	t.Run("acne benefit matches acne-prone skin", func(t *testing.T) {
		profile := domain.SkinProfile{Hydration: 50, AcneLevel: 90}
		product := domain.Product{Benefits: []string{"Clears BLEMISHES fast"}}

		match := ScoreProduct(profile, product, DefaultPricePreference)

		assert.Equal(t, 1.0, match.Factors.AcneMatch)
	})

	t.Run("substring keywords match inside other words", func(t *testing.T) {
		product := domain.Product{Benefits: []string{"Soil-derived minerals"}}

		match := ScoreProduct(dryProfile, product, DefaultPricePreference)

		// oily membership is 0 and "soil" supplies oil control
		assert.Equal(t, 0.0, match.Factors.OilinessMatch)
	})

	t.Run("empty ingredient and benefit lists stay in range", func(t *testing.T) {
		match := ScoreProduct(dryProfile, domain.Product{ID: "bare"}, DefaultPricePreference)

		assert.GreaterOrEqual(t, match.MatchScore, 0.0)
		assert.LessOrEqual(t, match.MatchScore, 1.0)
		assert.Equal(t, 1.0, match.Factors.IngredientSafety)
	})

	t.Run("clamps aggregate at zero for extreme prices", func(t *testing.T) {
		product := domain.Product{Price: 1_000_000}

		match := ScoreProduct(dryProfile, product, DefaultPricePreference)

		assert.Equal(t, 0.0, match.MatchScore)
	})

	t.Run("is idempotent", func(t *testing.T) {
		product := domain.Product{
			Price:       42,
			Benefits:    []string{"Oil control", "Hydrating"},
			Ingredients: []string{"Paraben", "Niacinamide"},
		}

		first := ScoreProduct(sensitiveProfile, product, 35)
		second := ScoreProduct(sensitiveProfile, product, 35)

		assert.Equal(t, first, second)
	})
}

func TestScoreProduct_RangeOverProfiles(t *testing.T) {
	products := []domain.Product{
		{},
		{Price: 28, Benefits: []string{"Hydrating", "Acne control"}, Ingredients: []string{"Fragrance"}},
		{Price: 65, Benefits: []string{"Mattifying"}, Ingredients: []string{"Salicylic Acid"}},
	}

	for h := -20.0; h <= 120; h += 10 {
		for s := 0.0; s <= 100; s += 25 {
			for a := 0.0; a <= 100; a += 25 {
				profile := domain.SkinProfile{Hydration: h, Sensitivity: s, AcneLevel: a}
				for _, p := range products {
					got := ScoreProduct(profile, p, DefaultPricePreference).MatchScore
					if got < 0 || got > 1 {
						t.Fatalf("ScoreProduct(%+v, %+v) = %v, want value in [0,1]", profile, p, got)
					}
				}
			}
		}
	}
}

func TestFindBestMatch(t *testing.T) {
	svc := NewMatchingService(MatchConfig{})
	ctx := context.Background()

	t.Run("returns not found for empty catalog", func(t *testing.T) {
		_, err := svc.FindBestMatch(ctx, dryProfile, "cleanser", nil)
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("ignores other categories", func(t *testing.T) {
		products := []domain.Product{{ID: "m1", Category: "moisturizer"}}

		_, err := svc.FindBestMatch(ctx, dryProfile, "cleanser", products)
		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("matches category case-insensitively", func(t *testing.T) {
		products := []domain.Product{{ID: "c1", Category: "Cleanser"}}

		match, err := svc.FindBestMatch(ctx, dryProfile, "cleanser", products)
		require.NoError(t, err)
		assert.Equal(t, "c1", match.Product.ID)
	})

	t.Run("selects highest score", func(t *testing.T) {
		products := []domain.Product{
			{ID: "plain", Category: "cleanser"},
			{ID: "hydrating", Category: "cleanser", Benefits: []string{"Hydrating cleanse"}},
			{ID: "harsh", Category: "cleanser", Ingredients: []string{"Sulfate"}},
		}

		match, err := svc.FindBestMatch(ctx, dryProfile, "cleanser", products)
		require.NoError(t, err)
		assert.Equal(t, "hydrating", match.Product.ID)
	})

	t.Run("first product wins ties", func(t *testing.T) {
		products := []domain.Product{
			{ID: "first", Category: "toner"},
			{ID: "second", Category: "toner"},
		}

		match, err := svc.FindBestMatch(ctx, dryProfile, "toner", products)
		require.NoError(t, err)
		assert.Equal(t, "first", match.Product.ID)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		products := []domain.Product{{ID: "c1", Category: "cleanser"}}

		_, err := svc.FindBestMatch(ctx, dryProfile, "cleanser", products)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestSortMatches(t *testing.T) {
	matches := []domain.ProductMatch{
		{Product: domain.Product{ID: "a"}, MatchScore: 0.5},
		{Product: domain.Product{ID: "b"}, MatchScore: 0.9},
		{Product: domain.Product{ID: "c"}, MatchScore: 0.5},
		{Product: domain.Product{ID: "d"}, MatchScore: 0.7},
	}

	SortMatches(matches)

	var ids []string
	for _, m := range matches {
		ids = append(ids, m.Product.ID)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestContainsAny(t *testing.T) {
	tests := []struct {
		name     string
		phrases  []string
		keywords []string
		want     bool
	}{
		{"case insensitive", []string{"MOISTURIZING"}, hydrationKeywords, true},
		{"prefix stem", []string{"hydration boost"}, hydrationKeywords, true},
		{"no match", []string{"Brightening"}, hydrationKeywords, false},
		{"empty phrases", nil, harshIngredients, false},
		{"inside another word", []string{"Parabens-free"}, harshIngredients, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsAny(tt.phrases, tt.keywords); got != tt.want {
				t.Errorf("containsAny() = %v, want %v", got, tt.want)
			}
		})
	}
}
