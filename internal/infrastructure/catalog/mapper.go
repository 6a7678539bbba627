package catalog

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

// FeedProduct is one record of the upstream product feed.
type FeedProduct struct {
	SKU         string   `json:"sku"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	INCI        string   `json:"inci"` // comma-separated ingredient list
	Claims      []string `json:"claims"`
	Image       string   `json:"image"`
	SkinTypes   []string `json:"skinTypes"`
}

// FeedResponse is the feed's list payload.
type FeedResponse struct {
	Products []FeedProduct `json:"products"`
	Total    int           `json:"total"`
}

var productValidator = validator.New()

// MapToProduct converts a feed record to a catalog product.
// Categories are lowercased so they line up with routine steps.
func MapToProduct(fp FeedProduct) domain.Product {
	return domain.Product{
		ID:              strings.TrimSpace(fp.SKU),
		Name:            strings.TrimSpace(fp.Title),
		Category:        strings.ToLower(strings.TrimSpace(fp.Type)),
		Price:           fp.Price,
		Description:     fp.Description,
		Ingredients:     SplitINCI(fp.INCI),
		Benefits:        fp.Claims,
		ImageURL:        fp.Image,
		TargetSkinTypes: fp.SkinTypes,
	}
}

// SplitINCI splits a comma-separated ingredient declaration, dropping blanks.
func SplitINCI(inci string) []string {
	var out []string
	for _, part := range strings.Split(inci, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateProduct reports whether a mapped product has its required fields.
func ValidateProduct(p domain.Product) error {
	return productValidator.Struct(p)
}
