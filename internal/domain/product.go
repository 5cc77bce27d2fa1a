package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"` // minor units
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Sizes       []string  `json:"sizes"`
	Colors      []string  `json:"colors"`
	Images      []string  `json:"images"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PrimaryImage returns the canonical image URL or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortName      ProductSort = "name"
)

// CategoryAll is the category filter value meaning "no filter".
const CategoryAll = "all"

// ProductQuery is a resolved catalog filter. Empty fields do not filter.
type ProductQuery struct {
	Search          string
	Category        string
	ExcludeID       string
	ExcludeCategory string
	FeaturedOnly    bool
	Sort            ProductSort
	Limit           int
}

// ProductInput is the admin form for creating or editing a product.
// Price is given in major units ("19.99") and converted to minor units.
type ProductInput struct {
	Name        string   `json:"name"        validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	Price       string   `json:"price"       validate:"required,numeric"`
	Category    string   `json:"category"    validate:"required"`
	Stock       int      `json:"stock"       validate:"min=0"`
	Images      []string `json:"images"      validate:"omitempty,dive,url"`
	Sizes       []string `json:"sizes"       validate:"min=1,dive,required"`
	Colors      []string `json:"colors"      validate:"min=1,dive,required"`
	Featured    bool     `json:"featured"`
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, error)
}
