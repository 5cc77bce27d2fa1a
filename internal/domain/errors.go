package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrForbidden              = errors.New("forbidden")
	ErrNotFound               = errors.New("not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrDuplicateCheckout      = errors.New("checkout already submitted")
	ErrInvalidTransition      = errors.New("invalid order status transition")

	ErrPersistence          = errors.New("could not save changes, please try again")
	ErrOrderPersistence     = errors.New("could not create order")
	ErrOrderItemPersistence = errors.New("could not create order items")
	ErrPaymentSession       = errors.New("could not create payment session")
)

// ValidationError maps json field names to a human readable message.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
