package delivery

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/usecase"
)

var errMockUnset = errors.New("mock not configured")

type MockIdentity struct {
	VerifyFunc func(ctx context.Context, token string) (*domain.Caller, error)
}

func (m *MockIdentity) Verify(ctx context.Context, token string) (*domain.Caller, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return nil, domain.ErrAuthenticationRequired
}

type MockAuthorizer struct {
	RequireAdminFunc func(ctx context.Context, caller *domain.Caller) (*domain.Profile, error)
}

func (m *MockAuthorizer) RequireAdmin(ctx context.Context, caller *domain.Caller) (*domain.Profile, error) {
	if m.RequireAdminFunc != nil {
		return m.RequireAdminFunc(ctx, caller)
	}
	return nil, domain.ErrForbidden
}

// The use case mocks embed the interface so only the methods a test needs
// have to be stubbed.

type MockCatalog struct {
	usecase.CatalogUseCase
	ListProductsFunc    func(ctx context.Context, params usecase.CatalogParams) ([]domain.Product, error)
	RelatedProductsFunc func(ctx context.Context, productID string, limit int) ([]domain.Product, error)
}

func (m *MockCatalog) ListProducts(ctx context.Context, params usecase.CatalogParams) ([]domain.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, params)
	}
	return nil, errMockUnset
}

func (m *MockCatalog) RelatedProducts(ctx context.Context, productID string, limit int) ([]domain.Product, error) {
	if m.RelatedProductsFunc != nil {
		return m.RelatedProductsFunc(ctx, productID, limit)
	}
	return nil, errMockUnset
}

type MockCart struct {
	usecase.CartUseCase
	AddItemFunc func(ctx context.Context, caller *domain.Caller, input domain.AddToCartInput) (*domain.CartItem, error)
}

func (m *MockCart) AddItem(ctx context.Context, caller *domain.Caller, input domain.AddToCartInput) (*domain.CartItem, error) {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, caller, input)
	}
	return nil, errMockUnset
}

type MockCheckout struct {
	usecase.CheckoutUseCase
	CheckoutCartFunc     func(ctx context.Context, caller *domain.Caller, idempotencyKey string) (*domain.CheckoutResult, error)
	CompleteCheckoutFunc func(ctx context.Context, caller *domain.Caller, orderID string) (*domain.Order, error)
}

func (m *MockCheckout) CheckoutCart(ctx context.Context, caller *domain.Caller, idempotencyKey string) (*domain.CheckoutResult, error) {
	if m.CheckoutCartFunc != nil {
		return m.CheckoutCartFunc(ctx, caller, idempotencyKey)
	}
	return nil, errMockUnset
}

func (m *MockCheckout) CompleteCheckout(ctx context.Context, caller *domain.Caller, orderID string) (*domain.Order, error) {
	if m.CompleteCheckoutFunc != nil {
		return m.CompleteCheckoutFunc(ctx, caller, orderID)
	}
	return nil, errMockUnset
}

type MockAdmin struct {
	usecase.AdminUseCase
	DashboardFunc     func(ctx context.Context, caller *domain.Caller, month, year int) (*usecase.DashboardStats, error)
	CreateProductFunc func(ctx context.Context, caller *domain.Caller, input domain.ProductInput) (*domain.Product, error)
}

func (m *MockAdmin) Dashboard(ctx context.Context, caller *domain.Caller, month, year int) (*usecase.DashboardStats, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, caller, month, year)
	}
	return nil, errMockUnset
}

func (m *MockAdmin) CreateProduct(ctx context.Context, caller *domain.Caller, input domain.ProductInput) (*domain.Product, error) {
	if m.CreateProductFunc != nil {
		return m.CreateProductFunc(ctx, caller, input)
	}
	return nil, errMockUnset
}
