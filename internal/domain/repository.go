package domain

import (
	"context"
)

// ProfileStore persists skin profiles keyed by profile ID
type ProfileStore interface {
	Get(ctx context.Context, id string) (*SkinProfile, error)
	Set(ctx context.Context, id string, profile SkinProfile) error
	Delete(ctx context.Context, id string) error
}

// CatalogRepository supplies the ordered product catalog
type CatalogRepository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
}
