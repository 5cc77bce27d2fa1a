package domain

import (
	"context"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	Total            int64       `json:"total"`
	Status           OrderStatus `json:"status"`
	PaymentSessionID string      `json:"payment_session_id,omitempty"`
	IdempotencyKey   string      `json:"-"`
	Items            []OrderItem `json:"items"`
	CustomerEmail    string      `json:"customer_email,omitempty"`
	CustomerName     string      `json:"customer_name,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// OrderItem holds the product name and price captured at checkout time.
type OrderItem struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ProductPrice  int64     `json:"product_price"`
	Quantity      int       `json:"quantity"`
	SelectedSize  string    `json:"selected_size"`
	SelectedColor string    `json:"selected_color"`
	CreatedAt     time.Time `json:"created_at"`
}

// LineItem is one priced entry submitted to checkout.
type LineItem struct {
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	UnitPrice     int64  `json:"unit_price"`
	Quantity      int    `json:"quantity"`
	SelectedSize  string `json:"selected_size"`
	SelectedColor string `json:"selected_color"`
}

type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
}

// OrderFilter narrows admin order listings. Empty Status lists all.
type OrderFilter struct {
	Status OrderStatus
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	CreateOrderItems(ctx context.Context, orderID string, items []OrderItem) error
	DeleteOrder(ctx context.Context, id string) error
	GetOrderByID(ctx context.Context, id string) (*Order, error)
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
	// CancelStalePending moves pending orders created before cutoff to
	// cancelled and returns their ids.
	CancelStalePending(ctx context.Context, cutoff time.Time) ([]string, error)
	CountOrdersBetween(ctx context.Context, from, to time.Time) (OrderStats, error)
}

// OrderStats aggregates orders created within a time window.
type OrderStats struct {
	Orders    int   `json:"orders"`
	Completed int   `json:"completed"`
	Revenue   int64 `json:"revenue"`
}

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}
