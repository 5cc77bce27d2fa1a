package domain

import "context"

// IdentityOracle resolves an access token to the caller it was issued for.
type IdentityOracle interface {
	Verify(ctx context.Context, token string) (*Caller, error)
}

type PaymentLineItem struct {
	Name        string
	Description string
	UnitPrice   int64
	Quantity    int
}

type PaymentSessionRequest struct {
	LineItems  []PaymentLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type PaymentSession struct {
	ID          string
	RedirectURL string
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateSession(ctx context.Context, req PaymentSessionRequest) (*PaymentSession, error)
}

type OrderEventType string

const (
	EventOrderPlaced    OrderEventType = "order.placed"
	EventOrderCompleted OrderEventType = "order.completed"
)

type OrderEvent struct {
	ID      string         `json:"id"`
	Type    OrderEventType `json:"type"`
	OrderID string         `json:"order_id"`
	UserID  string         `json:"user_id"`
	Total   int64          `json:"total"`
	Items   int            `json:"items"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}
