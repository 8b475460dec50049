package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	ImageUrl  string          `json:"imageUrl,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"-"`
	Version   int             `json:"-"`
}

// CartLine is one product entry in a cart. Quantity is always >= 1; setting
// it to zero removes the line instead of persisting it.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type ProductFilters struct {
	Category   string
	ActiveOnly bool
}

type ProductRepository interface {
	GetAll(ctx context.Context, filters ProductFilters) ([]*Product, error)
	GetById(ctx context.Context, id int) (*Product, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
}
