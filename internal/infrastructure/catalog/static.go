// Package catalog provides product catalog sources: a static list loaded from
// YAML (or the built-in seed catalog) and an HTTP product feed.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swanbotanicals/skinmatch/internal/domain"
)

//go:embed products.yaml
var embeddedProducts []byte

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Products []domain.Product `yaml:"products"`
}

// StaticCatalog is a fixed, ordered product list.
type StaticCatalog struct {
	products []domain.Product
	index    map[string]int
}

// NewStaticCatalog builds a catalog over products, keeping their order.
// A later duplicate ID shadows an earlier one for Get.
func NewStaticCatalog(products []domain.Product) *StaticCatalog {
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	return &StaticCatalog{products: products, index: index}
}

// Embedded returns the built-in seed catalog.
func Embedded() (*StaticCatalog, error) {
	products, err := Parse(embeddedProducts)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return NewStaticCatalog(products), nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog %s: %v", domain.ErrCatalogUnavailable, path, err)
	}

	products, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return NewStaticCatalog(products), nil
}

// Parse decodes a YAML catalog document and validates every product.
func Parse(data []byte) ([]domain.Product, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse catalog: %v", domain.ErrCatalogUnavailable, err)
	}

	for i := range file.Products {
		if err := ValidateProduct(file.Products[i]); err != nil {
			return nil, fmt.Errorf("%w: product %d: %v", domain.ErrCatalogUnavailable, i, err)
		}
	}

	return file.Products, nil
}

// List returns a copy of the products in catalog order.
func (c *StaticCatalog) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// Get returns the product with the given ID.
func (c *StaticCatalog) Get(ctx context.Context, id string) (*domain.Product, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := c.products[i]
	return &p, nil
}

// Len returns the number of products.
func (c *StaticCatalog) Len() int {
	return len(c.products)
}
