package domain

import (
	"context"
	"time"
)

// CartItem is one row of a user's cart. (UserID, ProductID, SelectedSize,
// SelectedColor) is unique; absent size or color is stored as "".
type CartItem struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	ProductID     string    `json:"product_id"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selected_size"`
	SelectedColor string    `json:"selected_color"`
	CreatedAt     time.Time `json:"created_at"`
}

// CartLine is a cart row joined with its product. Product is nil when the
// referenced product no longer exists.
type CartLine struct {
	Item        CartItem `json:"item"`
	Product     *Product `json:"product"`
	Unavailable bool     `json:"unavailable"`
	LineTotal   int64    `json:"line_total"`
}

type CartSummary struct {
	Lines    []CartLine `json:"lines"`
	Subtotal int64      `json:"subtotal"`
	Tax      int64      `json:"tax"`
	Total    int64      `json:"total"`
}

type AddToCartInput struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0"`
	Size      string `json:"size"       validate:"required"`
	Color     string `json:"color"      validate:"required"`
}

type UpdateCartQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

type CartRepository interface {
	ListCartItems(ctx context.Context, userID string) ([]CartItem, error)
	GetCartItem(ctx context.Context, id string) (*CartItem, error)
	FindCartItem(ctx context.Context, userID, productID, size, color string) (*CartItem, error)
	// UpsertCartItem inserts the row or, on a uniqueness-key conflict,
	// overwrites the quantity of the existing row.
	UpsertCartItem(ctx context.Context, item *CartItem) (*CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*CartItem, error)
	DeleteCartItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context, userID string) error
}
