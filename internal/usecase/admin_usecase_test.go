package usecase

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminCaller = &domain.Caller{UserID: "admin-1", Email: "admin@example.com"}
	userCaller  = &domain.Caller{UserID: "user-1", Email: "user@example.com"}
)

type adminFixture struct {
	uc       AdminUseCase
	products *fakeProductRepo
	orders   *fakeOrderRepo
	profiles *fakeProfileRepo
	events   *fakeEvents
}

func newAdminFixture() *adminFixture {
	logger, _ := test.NewNullLogger()
	f := &adminFixture{
		products: &fakeProductRepo{},
		orders:   newFakeOrderRepo(),
		profiles: newFakeProfileRepo(
			domain.Profile{ID: adminCaller.UserID, Email: adminCaller.Email, Role: domain.RoleAdmin},
			domain.Profile{ID: userCaller.UserID, Email: userCaller.Email, Role: domain.RoleUser},
		),
		events: &fakeEvents{},
	}
	policy := NewAccessPolicy(f.profiles, logger)
	f.uc = NewAdminUseCase(policy, f.products, f.orders, f.profiles, f.events, logger)
	return f
}

func validProductInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        "Linen Shirt",
		Description: "Breathable linen shirt for summer",
		Price:       "19.99",
		Category:    "Tops",
		Stock:       10,
		Images:      []string{"https://cdn.example.com/shirt.jpg"},
		Sizes:       []string{"S", "M"},
		Colors:      []string{"White"},
	}
}

func TestCreateProductConvertsPrice(t *testing.T) {
	f := newAdminFixture()

	product, err := f.uc.CreateProduct(context.Background(), adminCaller, validProductInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1999), product.Price)
	assert.Equal(t, 1, f.products.createCalls)
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	for _, price := range []string{"0", "-5", "0.004"} {
		t.Run(price, func(t *testing.T) {
			f := newAdminFixture()
			input := validProductInput()
			input.Price = price

			_, err := f.uc.CreateProduct(context.Background(), adminCaller, input)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "price")
			assert.Zero(t, f.products.createCalls)
		})
	}
}

func TestCreateProductSchema(t *testing.T) {
	f := newAdminFixture()
	input := domain.ProductInput{Name: "ab", Description: "short", Price: "abc", Stock: -1, Images: []string{"not a url"}}

	_, err := f.uc.CreateProduct(context.Background(), adminCaller, input)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"name", "description", "price", "category", "stock", "images[0]", "sizes", "colors"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.Zero(t, f.products.createCalls)
}

func TestAdminOperationsForbiddenForUsers(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	_, err := f.uc.CreateProduct(ctx, userCaller, validProductInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.UpdateProduct(ctx, userCaller, "p1", validProductInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.DeleteProduct(ctx, userCaller, "p1"), domain.ErrForbidden)
	_, err = f.uc.ChangeUserRole(ctx, userCaller, userCaller.UserID, domain.RoleChange{Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.ListOrders(ctx, userCaller, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Dashboard(ctx, &domain.Caller{UserID: "stranger"}, 1, 2024)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.ListUsers(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)

	assert.Zero(t, f.products.createCalls)
	assert.Zero(t, f.products.updateCalls)
	assert.Zero(t, f.profiles.roleUpdates)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.OrderStatus
		to      domain.OrderStatus
		wantErr error
	}{
		{name: "pending to completed", from: domain.StatusPending, to: domain.StatusCompleted},
		{name: "pending to cancelled", from: domain.StatusPending, to: domain.StatusCancelled},
		{name: "completed to cancelled", from: domain.StatusCompleted, to: domain.StatusCancelled, wantErr: domain.ErrInvalidTransition},
		{name: "cancelled to pending", from: domain.StatusCancelled, to: domain.StatusPending, wantErr: domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture()
			f.orders.orders["o1"] = &domain.Order{ID: "o1", UserID: "u", Status: tt.from}

			order, err := f.uc.UpdateOrderStatus(context.Background(), adminCaller, "o1", tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.orders.orders["o1"].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
		})
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	f := newAdminFixture()

	_, err := f.uc.UpdateOrderStatus(context.Background(), adminCaller, "o1", "shipped")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChangeUserRole(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	profile, err := f.uc.ChangeUserRole(ctx, adminCaller, userCaller.UserID, domain.RoleChange{Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, profile.Role)

	_, err = f.uc.ChangeUserRole(ctx, adminCaller, adminCaller.UserID, domain.RoleChange{Role: domain.RoleUser})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.uc.ChangeUserRole(ctx, adminCaller, userCaller.UserID, domain.RoleChange{Role: "owner"})
	assert.ErrorAs(t, err, &verr)
}

func TestDashboard(t *testing.T) {
	f := newAdminFixture()
	f.orders.stats = domain.OrderStats{Orders: 7, Completed: 4, Revenue: 125000}

	stats, err := f.uc.Dashboard(context.Background(), adminCaller, 2, 2024)
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{Month: 2, Year: 2024, Orders: 7, CompletedOrders: 4, Revenue: 125000, TotalUsers: 2}, stats)

	_, err = f.uc.Dashboard(context.Background(), adminCaller, 13, 2024)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMonthWindow(t *testing.T) {
	from, to, err := MonthWindow(12, 2023)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestListOrdersStatusFilter(t *testing.T) {
	f := newAdminFixture()
	f.orders.orders["a"] = &domain.Order{ID: "a", Status: domain.StatusPending}
	f.orders.orders["b"] = &domain.Order{ID: "b", Status: domain.StatusCompleted}

	orders, err := f.uc.ListOrders(context.Background(), adminCaller, "completed")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "b", orders[0].ID)

	all, err := f.uc.ListOrders(context.Background(), adminCaller, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.uc.ListOrders(context.Background(), adminCaller, "lost")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}
