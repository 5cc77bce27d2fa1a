package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const rollbackTimeout = 5 * time.Second

type CheckoutUseCase interface {
	// CreateCheckout turns priced line items into a pending order and a
	// hosted payment redirect.
	CreateCheckout(ctx context.Context, caller *domain.Caller, items []domain.LineItem, total int64, idempotencyKey string) (*domain.CheckoutResult, error)
	// CheckoutCart prices the caller's cart from the catalog and checks it out.
	CheckoutCart(ctx context.Context, caller *domain.Caller, idempotencyKey string) (*domain.CheckoutResult, error)
	// CompleteCheckout marks the order completed and clears the cart. Safe to repeat.
	CompleteCheckout(ctx context.Context, caller *domain.Caller, orderID string) (*domain.Order, error)
	ExpireStaleOrders(ctx context.Context) (int, error)
}

type CheckoutConfig struct {
	SiteURL    string
	TaxRate    decimal.Decimal
	StaleAfter time.Duration
}

type checkoutUseCase struct {
	orderRepo   domain.OrderRepository
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	payments    domain.PaymentGateway
	events      domain.EventPublisher
	cfg         CheckoutConfig
	now         func() time.Time
	log         *logrus.Logger
}

func NewCheckoutUseCase(
	orderRepo domain.OrderRepository,
	cartRepo domain.CartRepository,
	productRepo domain.ProductRepository,
	payments domain.PaymentGateway,
	events domain.EventPublisher,
	cfg CheckoutConfig,
	logger *logrus.Logger,
) CheckoutUseCase {
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &checkoutUseCase{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		payments:    payments,
		events:      events,
		cfg:         cfg,
		now:         time.Now,
		log:         logger,
	}
}

func (uc *checkoutUseCase) CheckoutCart(ctx context.Context, caller *domain.Caller, idempotencyKey string) (*domain.CheckoutResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	summary, err := loadCartSummary(ctx, uc.cartRepo, uc.productRepo, caller.UserID, uc.cfg.TaxRate)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to price cart for user %s: %v", caller.UserID, err)
		return nil, err
	}

	// Variants of one product share its stock.
	requested := make(map[string]int, len(summary.Lines))
	for _, line := range summary.Lines {
		if !line.Unavailable {
			requested[line.Product.ID] += line.Item.Quantity
		}
	}

	items := make([]domain.LineItem, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		if line.Unavailable {
			uc.log.Warnf("Use Case: Skipping unavailable product %s in cart of user %s", line.Item.ProductID, caller.UserID)
			continue
		}
		if qty := requested[line.Product.ID]; qty > line.Product.Stock {
			return nil, fmt.Errorf("%w: %d of %s requested, only %d available", domain.ErrInsufficientStock, qty, line.Product.Name, line.Product.Stock)
		}
		items = append(items, domain.LineItem{
			ProductID:     line.Product.ID,
			Name:          line.Product.Name,
			Description:   line.Product.Description,
			UnitPrice:     line.Product.Price,
			Quantity:      line.Item.Quantity,
			SelectedSize:  line.Item.SelectedSize,
			SelectedColor: line.Item.SelectedColor,
		})
	}

	return uc.CreateCheckout(ctx, caller, items, summary.Total, idempotencyKey)
}

func (uc *checkoutUseCase) CreateCheckout(ctx context.Context, caller *domain.Caller, items []domain.LineItem, total int64, idempotencyKey string) (*domain.CheckoutResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	itemsTotal, err := validateLineItems(items, total)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Use Case: Validated checkout for user %s: %d items, total %d", caller.UserID, len(items), total)

	order, err := uc.orderRepo.CreateOrder(ctx, &domain.Order{
		UserID:         caller.UserID,
		Total:          total,
		Status:         domain.StatusPending,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateCheckout) {
			uc.log.Warnf("Use Case: Duplicate checkout for user %s with key %q", caller.UserID, idempotencyKey)
			return nil, err
		}
		uc.log.Errorf("Use Case: Failed to create order for user %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderPersistence, err)
	}
	uc.log.Infof("Use Case: Order %s created in %s state for user %s", order.ID, order.Status, caller.UserID)

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			OrderID:       order.ID,
			ProductID:     item.ProductID,
			ProductName:   item.Name,
			ProductPrice:  item.UnitPrice,
			Quantity:      item.Quantity,
			SelectedSize:  item.SelectedSize,
			SelectedColor: item.SelectedColor,
		})
	}
	if err := uc.orderRepo.CreateOrderItems(ctx, order.ID, orderItems); err != nil {
		uc.log.Errorf("Use Case: Failed to create items for order %s: %v. Rolling back...", order.ID, err)
		uc.rollbackOrder(ctx, order.ID)
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderItemPersistence, err)
	}

	session, err := uc.payments.CreateSession(ctx, domain.PaymentSessionRequest{
		LineItems:  paymentLines(items, total-itemsTotal),
		SuccessURL: fmt.Sprintf("%s/checkout/success?session_id={CHECKOUT_SESSION_ID}&order_id=%s", uc.cfg.SiteURL, order.ID),
		CancelURL:  uc.cfg.SiteURL + "/cart",
		Metadata: map[string]string{
			"order_id": order.ID,
			"user_id":  caller.UserID,
		},
	})
	if err != nil || session == nil || session.RedirectURL == "" {
		if err == nil {
			err = errors.New("payment provider returned no redirect URL")
		}
		uc.log.Errorf("Use Case: Payment session for order %s failed: %v. Rolling back...", order.ID, err)
		uc.rollbackOrder(ctx, order.ID)
		return nil, fmt.Errorf("%w: %w", domain.ErrPaymentSession, err)
	}

	if err := uc.orderRepo.SetPaymentSession(ctx, order.ID, session.ID); err != nil {
		uc.log.Warnf("Use Case: Could not link payment session %s to order %s, continuing: %v", session.ID, order.ID, err)
	}

	uc.publish(ctx, domain.OrderEvent{
		Type:    domain.EventOrderPlaced,
		OrderID: order.ID,
		UserID:  caller.UserID,
		Total:   total,
		Items:   len(items),
	})

	uc.log.Infof("Use Case: Checkout for order %s ready, session %s", order.ID, session.ID)
	return &domain.CheckoutResult{OrderID: order.ID, RedirectURL: session.RedirectURL}, nil
}

// validateLineItems checks every line and returns the sum of the lines.
// The order total may exceed that sum by the tax amount, never fall below it.
func validateLineItems(items []domain.LineItem, total int64) (int64, error) {
	verr := &domain.ValidationError{Fields: map[string]string{}}
	var sum int64
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			verr.Fields[fmt.Sprintf("items[%d].name", i)] = "is required"
		}
		if item.UnitPrice <= 0 {
			verr.Fields[fmt.Sprintf("items[%d].unit_price", i)] = "must be greater than 0"
		}
		if item.Quantity <= 0 {
			verr.Fields[fmt.Sprintf("items[%d].quantity", i)] = "must be greater than 0"
		}
		sum += item.UnitPrice * int64(item.Quantity)
	}
	if len(verr.Fields) == 0 && total < sum {
		verr.Fields["total"] = fmt.Sprintf("must be at least the item sum %d", sum)
	}
	if len(verr.Fields) > 0 {
		return 0, verr
	}
	return sum, nil
}

// paymentLines mirrors the order lines and charges any remainder of the
// order total as a tax line so the charged amount equals the order total.
func paymentLines(items []domain.LineItem, tax int64) []domain.PaymentLineItem {
	lines := make([]domain.PaymentLineItem, 0, len(items)+1)
	for _, item := range items {
		lines = append(lines, domain.PaymentLineItem{
			Name:        item.Name,
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	if tax > 0 {
		lines = append(lines, domain.PaymentLineItem{Name: "Tax", UnitPrice: tax, Quantity: 1})
	}
	return lines
}

func (uc *checkoutUseCase) rollbackOrder(ctx context.Context, orderID string) {
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	uc.log.Warnf("Use Case: Rolling back order %s", orderID)
	if err := uc.orderRepo.DeleteOrder(rbCtx, orderID); err != nil {
		uc.log.Errorf("Use Case: CRITICAL! Failed to roll back order %s: %v. Manual intervention required!", orderID, err)
	}
}

func (uc *checkoutUseCase) publish(ctx context.Context, event domain.OrderEvent) {
	if err := uc.events.PublishOrderEvent(ctx, event); err != nil {
		uc.log.Warnf("Use Case: Failed to publish %s for order %s: %v", event.Type, event.OrderID, err)
	}
}

func (uc *checkoutUseCase) CompleteCheckout(ctx context.Context, caller *domain.Caller, orderID string) (*domain.Order, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, domain.NewValidationError("order_id", "is required")
	}

	order, err := uc.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("could not load order %s: %w", orderID, err)
	}
	if order.UserID != caller.UserID {
		uc.log.Warnf("Use Case: User %s attempted to complete order %s owned by %s", caller.UserID, orderID, order.UserID)
		return nil, domain.ErrForbidden
	}

	switch order.Status {
	case domain.StatusCompleted:
		uc.log.Infof("Use Case: Order %s already completed", orderID)
	case domain.StatusCancelled:
		uc.log.Warnf("Use Case: Completion requested for cancelled order %s", orderID)
		return nil, fmt.Errorf("%w: order %s is cancelled", domain.ErrInvalidTransition, orderID)
	default:
		updated, err := uc.orderRepo.UpdateOrderStatus(ctx, orderID, domain.StatusCompleted)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to complete order %s: %v", orderID, err)
			return nil, fmt.Errorf("could not complete order: %w", err)
		}
		updated.Items = order.Items
		order = updated
		uc.publish(ctx, domain.OrderEvent{
			Type:    domain.EventOrderCompleted,
			OrderID: order.ID,
			UserID:  order.UserID,
			Total:   order.Total,
			Items:   len(order.Items),
		})
		uc.log.Infof("Use Case: Order %s completed", orderID)
	}

	if err := uc.cartRepo.ClearCart(ctx, caller.UserID); err != nil {
		uc.log.Errorf("Use Case: Failed to clear cart of user %s after order %s: %v", caller.UserID, orderID, err)
		return nil, fmt.Errorf("could not clear cart: %w", err)
	}
	return order, nil
}

func (uc *checkoutUseCase) ExpireStaleOrders(ctx context.Context) (int, error) {
	cutoff := uc.now().Add(-uc.cfg.StaleAfter)
	ids, err := uc.orderRepo.CancelStalePending(ctx, cutoff)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to cancel pending orders older than %s: %v", cutoff.Format(time.RFC3339), err)
		return 0, fmt.Errorf("could not expire stale orders: %w", err)
	}
	if len(ids) > 0 {
		uc.log.Infof("Use Case: Cancelled %d stale pending orders created before %s: %v", len(ids), cutoff.Format(time.RFC3339), ids)
	}
	return len(ids), nil
}
