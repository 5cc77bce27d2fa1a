package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartUseCase interface {
	GetCart(ctx context.Context, caller *domain.Caller) (*domain.CartSummary, error)
	AddItem(ctx context.Context, caller *domain.Caller, input domain.AddToCartInput) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, caller *domain.Caller, itemID string, input domain.UpdateCartQuantityInput) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, caller *domain.Caller, itemID string) error
	Reorder(ctx context.Context, caller *domain.Caller, orderID string) (*ReorderResult, error)
}

// ReorderResult lists the cart rows written and the products skipped
// because they were deleted or out of stock.
type ReorderResult struct {
	Added   []domain.CartItem `json:"added"`
	Skipped []string          `json:"skipped"`
}

type cartUseCase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	taxRate     decimal.Decimal
	log         *logrus.Logger
}

func NewCartUseCase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, orderRepo domain.OrderRepository, taxRate decimal.Decimal, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		taxRate:     taxRate,
		log:         logger,
	}
}

func (uc *cartUseCase) GetCart(ctx context.Context, caller *domain.Caller) (*domain.CartSummary, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	summary, err := loadCartSummary(ctx, uc.cartRepo, uc.productRepo, caller.UserID, uc.taxRate)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to load cart for user %s: %v", caller.UserID, err)
		return nil, err
	}
	return summary, nil
}

func loadCartSummary(ctx context.Context, cartRepo domain.CartRepository, productRepo domain.ProductRepository, userID string, rate decimal.Decimal) (*domain.CartSummary, error) {
	items, err := cartRepo.ListCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load cart: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	products := map[string]*domain.Product{}
	if len(ids) > 0 {
		products, err = productRepo.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("could not load cart products: %w", err)
		}
	}

	summary := SummarizeCart(items, products, rate)
	return &summary, nil
}

func (uc *cartUseCase) AddItem(ctx context.Context, caller *domain.Caller, input domain.AddToCartInput) (*domain.CartItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("could not load product %s: %w", input.ProductID, err)
	}
	if err := checkOption(product.Sizes, input.Size, "size"); err != nil {
		return nil, err
	}
	if err := checkOption(product.Colors, input.Color, "color"); err != nil {
		return nil, err
	}

	quantity := input.Quantity
	existing, err := uc.cartRepo.FindCartItem(ctx, caller.UserID, input.ProductID, input.Size, input.Color)
	switch {
	case err == nil:
		quantity += existing.Quantity
	case errors.Is(err, domain.ErrNotFound):
	default:
		uc.log.Errorf("Use Case: Failed to look up cart row for user %s, product %s: %v", caller.UserID, input.ProductID, err)
		return nil, fmt.Errorf("could not load cart: %w", err)
	}

	if quantity > product.Stock {
		uc.log.Warnf("Use Case: Insufficient stock for product %s (requested total: %d, available: %d)", product.ID, quantity, product.Stock)
		return nil, fmt.Errorf("%w: only %d of %s available", domain.ErrInsufficientStock, product.Stock, product.Name)
	}

	item, err := uc.cartRepo.UpsertCartItem(ctx, &domain.CartItem{
		UserID:        caller.UserID,
		ProductID:     input.ProductID,
		Quantity:      quantity,
		SelectedSize:  input.Size,
		SelectedColor: input.Color,
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to save cart row for user %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not add to cart: %w", err)
	}

	uc.log.Infof("Use Case: Cart row %s for user %s now holds %d x %s", item.ID, caller.UserID, item.Quantity, product.ID)
	return item, nil
}

// checkOption rejects a selection that the product does not offer. Products
// without any options accept anything.
func checkOption(options []string, selected, field string) error {
	if len(options) == 0 {
		return nil
	}
	for _, opt := range options {
		if opt == selected {
			return nil
		}
	}
	return domain.NewValidationError(field, "is not offered for this product")
}

func (uc *cartUseCase) UpdateQuantity(ctx context.Context, caller *domain.Caller, itemID string, input domain.UpdateCartQuantityInput) (*domain.CartItem, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	item, err := uc.ownedCartItem(ctx, caller, itemID)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetProductByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("could not load product %s: %w", item.ProductID, err)
	}
	if input.Quantity > product.Stock {
		return nil, fmt.Errorf("%w: only %d of %s available", domain.ErrInsufficientStock, product.Stock, product.Name)
	}

	updated, err := uc.cartRepo.UpdateCartItemQuantity(ctx, item.ID, input.Quantity)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update cart row %s: %v", item.ID, err)
		return nil, fmt.Errorf("could not update cart: %w", err)
	}
	return updated, nil
}

func (uc *cartUseCase) RemoveItem(ctx context.Context, caller *domain.Caller, itemID string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	item, err := uc.ownedCartItem(ctx, caller, itemID)
	if err != nil {
		return err
	}
	if err := uc.cartRepo.DeleteCartItem(ctx, item.ID); err != nil {
		uc.log.Errorf("Use Case: Failed to delete cart row %s: %v", item.ID, err)
		return fmt.Errorf("could not remove cart item: %w", err)
	}
	uc.log.Infof("Use Case: Cart row %s removed for user %s", item.ID, caller.UserID)
	return nil
}

func (uc *cartUseCase) ownedCartItem(ctx context.Context, caller *domain.Caller, itemID string) (*domain.CartItem, error) {
	item, err := uc.cartRepo.GetCartItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("could not load cart item %s: %w", itemID, err)
	}
	if item.UserID != caller.UserID {
		uc.log.Warnf("Use Case: User %s attempted to modify cart row %s owned by %s", caller.UserID, itemID, item.UserID)
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// Reorder copies a past order back into the cart on the full
// (product, size, color) key. Quantities are clamped to current stock.
func (uc *cartUseCase) Reorder(ctx context.Context, caller *domain.Caller, orderID string) (*ReorderResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("could not load order %s: %w", orderID, err)
	}
	if order.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}

	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not load products for reorder: %w", err)
	}

	result := &ReorderResult{Added: []domain.CartItem{}, Skipped: []string{}}
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok || product.Stock <= 0 {
			uc.log.Infof("Use Case: Reorder of %s skips product %s (unavailable)", orderID, item.ProductID)
			result.Skipped = append(result.Skipped, item.ProductID)
			continue
		}

		quantity := item.Quantity
		if quantity > product.Stock {
			quantity = product.Stock
		}

		saved, err := uc.cartRepo.UpsertCartItem(ctx, &domain.CartItem{
			UserID:        caller.UserID,
			ProductID:     item.ProductID,
			Quantity:      quantity,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
		if err != nil {
			uc.log.Errorf("Use Case: Reorder of %s failed on product %s after %d rows: %v", orderID, item.ProductID, len(result.Added), err)
			return nil, fmt.Errorf("could not add %s to cart: %w", item.ProductName, err)
		}
		result.Added = append(result.Added, *saved)
	}

	uc.log.Infof("Use Case: Reorder of %s by user %s added %d rows, skipped %d", orderID, caller.UserID, len(result.Added), len(result.Skipped))
	return result, nil
}
