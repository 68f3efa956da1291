package domain

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money is written as a plain JSON number, the form stored documents and
// browser clients use.
func init() { decimal.MarshalJSONWithoutQuotes = true }

type Product struct {
	ID            string          `json:"id"`
	SellerID      string          `json:"sellerId"`
	Name          string          `json:"name"`
	NameEn        string          `json:"nameEn"`
	Description   string          `json:"description"`
	DescriptionEn string          `json:"descriptionEn"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Image         string          `json:"image,omitempty"`
	Specs         map[string]any  `json:"specs,omitempty"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	Featured      bool            `json:"featured"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

func (p Product) Clone() Product {
	p.Specs = maps.Clone(p.Specs)
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		p.UpdatedAt = &t
	}
	return p
}

// Matches reports whether the lowercase query appears in any searchable field.
func (p Product) Matches(query string) bool {
	q := strings.ToLower(query)
	for _, f := range []string{p.Name, p.NameEn, p.Description, p.DescriptionEn, p.Category} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

type ProductInput struct {
	SellerID      string          `json:"sellerId"`
	Name          string          `json:"name"`
	NameEn        string          `json:"nameEn"`
	Description   string          `json:"description"`
	DescriptionEn string          `json:"descriptionEn"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	Image         string          `json:"image"`
	Specs         map[string]any  `json:"specs"`
}

// ProductUpdate covers seller-editable fields; rating and reviewCount are
// derived from reviews and cannot be set here.
type ProductUpdate struct {
	Name          *string          `json:"name"`
	NameEn        *string          `json:"nameEn"`
	Description   *string          `json:"description"`
	DescriptionEn *string          `json:"descriptionEn"`
	Category      *string          `json:"category"`
	Brand         *string          `json:"brand"`
	Price         *decimal.Decimal `json:"price"`
	Stock         *int             `json:"stock"`
	Image         *string          `json:"image"`
	Specs         map[string]any   `json:"specs"`
	Featured      *bool            `json:"featured"`
}

func (p ProductUpdate) Apply(dst *Product) {
	set(&dst.Name, p.Name)
	set(&dst.NameEn, p.NameEn)
	set(&dst.Description, p.Description)
	set(&dst.DescriptionEn, p.DescriptionEn)
	set(&dst.Category, p.Category)
	set(&dst.Brand, p.Brand)
	set(&dst.Price, p.Price)
	set(&dst.Stock, p.Stock)
	set(&dst.Image, p.Image)
	set(&dst.Featured, p.Featured)
	if p.Specs != nil {
		dst.Specs = maps.Clone(p.Specs)
	}
}

type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Update(ctx context.Context, id string, upd ProductUpdate) (*Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]Product, error)
	ListByCategory(ctx context.Context, category string) ([]Product, error)
	ListFeatured(ctx context.Context) ([]Product, error)
}
