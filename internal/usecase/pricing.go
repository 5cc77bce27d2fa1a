package usecase

import (
	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// CalculateTax returns subtotal × rate rounded half up to whole minor units.
func CalculateTax(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

// SummarizeCart prices cart rows against the products that still exist.
// Rows whose product is missing are kept, flagged unavailable and not summed.
func SummarizeCart(items []domain.CartItem, products map[string]*domain.Product, rate decimal.Decimal) domain.CartSummary {
	summary := domain.CartSummary{Lines: make([]domain.CartLine, 0, len(items))}

	for _, item := range items {
		line := domain.CartLine{Item: item}
		product, ok := products[item.ProductID]
		if !ok || product == nil {
			line.Unavailable = true
		} else {
			line.Product = product
			line.LineTotal = product.Price * int64(item.Quantity)
			summary.Subtotal += line.LineTotal
		}
		summary.Lines = append(summary.Lines, line)
	}

	summary.Tax = CalculateTax(summary.Subtotal, rate)
	summary.Total = summary.Subtotal + summary.Tax
	return summary
}
