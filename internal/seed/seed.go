// Package seed loads the storefront catalog from YAML.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/flicky/printdrop/internal/model"
	"github.com/flicky/printdrop/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	SortOrder   int    `yaml:"sort_order"`
}

type Product struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	BasePrice   string `yaml:"base_price"`
	ImageURL    string `yaml:"image_url"`
	Options     struct {
		Colors    []string `yaml:"colors"`
		Sizes     []string `yaml:"sizes"`
		Materials []string `yaml:"materials"`
	} `yaml:"customization_options"`
	Active *bool `yaml:"is_active"`
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// Load decodes and validates a catalog. Unknown keys are rejected.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	slugs := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" || cat.Slug == "" {
			return fmt.Errorf("category %d: name and slug are required", i)
		}
		if slugs[cat.Slug] {
			return fmt.Errorf("category %q: duplicate slug", cat.Slug)
		}
		slugs[cat.Slug] = true
	}

	names := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.Name == "" {
			return errors.New("product without a name")
		}
		if !slugs[p.Category] {
			return fmt.Errorf("product %q: unknown category %q", p.Name, p.Category)
		}
		key := p.Category + "/" + strings.ToLower(p.Name)
		if names[key] {
			return fmt.Errorf("product %q: listed twice in %q", p.Name, p.Category)
		}
		names[key] = true

		price, err := decimal.NewFromString(p.BasePrice)
		if err != nil {
			return fmt.Errorf("product %q: base_price: %w", p.Name, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("product %q: base_price must not be negative", p.Name)
		}
	}
	return nil
}

type Result struct {
	Categories int
	ProductIDs []uuid.UUID
}

// Apply upserts every category, then every product. Running it twice leaves
// the catalog unchanged.
func Apply(ctx context.Context, categories repository.CategoryRepository, products repository.ProductRepository, c *Catalog) (*Result, error) {
	ids := make(map[string]uuid.UUID, len(c.Categories))
	for _, cat := range c.Categories {
		m := &model.Category{
			Name:        cat.Name,
			Slug:        cat.Slug,
			Description: cat.Description,
			ImageURL:    cat.ImageURL,
			SortOrder:   cat.SortOrder,
		}
		if err := categories.Upsert(ctx, m); err != nil {
			return nil, fmt.Errorf("seed category %q: %w", cat.Slug, err)
		}
		ids[cat.Slug] = m.ID
	}

	res := &Result{Categories: len(c.Categories)}
	for _, p := range c.Products {
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		m := &model.Product{
			Name:        p.Name,
			Description: p.Description,
			BasePrice:   decimal.RequireFromString(p.BasePrice).Round(2),
			CategoryID:  ids[p.Category],
			ImageURL:    p.ImageURL,
			CustomizationOptions: model.CustomizationOptions{
				Colors:    p.Options.Colors,
				Sizes:     p.Options.Sizes,
				Materials: p.Options.Materials,
			},
			IsActive: active,
		}
		if err := products.Upsert(ctx, m); err != nil {
			return nil, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		res.ProductIDs = append(res.ProductIDs, m.ID)
	}
	return res, nil
}
