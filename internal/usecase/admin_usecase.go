package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type AdminUseCase interface {
	CreateProduct(ctx context.Context, caller *domain.Caller, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller *domain.Caller, id string, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller *domain.Caller, id string) error
	ListOrders(ctx context.Context, caller *domain.Caller, status string) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, caller *domain.Caller, id string, status domain.OrderStatus) (*domain.Order, error)
	ListUsers(ctx context.Context, caller *domain.Caller) ([]domain.Profile, error)
	ChangeUserRole(ctx context.Context, caller *domain.Caller, userID string, change domain.RoleChange) (*domain.Profile, error)
	Dashboard(ctx context.Context, caller *domain.Caller, month, year int) (*DashboardStats, error)
}

type DashboardStats struct {
	Month           int   `json:"month"`
	Year            int   `json:"year"`
	Orders          int   `json:"orders"`
	CompletedOrders int   `json:"completed_orders"`
	Revenue         int64 `json:"revenue"`
	TotalUsers      int   `json:"total_users"`
}

type adminUseCase struct {
	policy      Authorizer
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	profileRepo domain.ProfileRepository
	events      domain.EventPublisher
	log         *logrus.Logger
}

func NewAdminUseCase(
	policy Authorizer,
	productRepo domain.ProductRepository,
	orderRepo domain.OrderRepository,
	profileRepo domain.ProfileRepository,
	events domain.EventPublisher,
	logger *logrus.Logger,
) AdminUseCase {
	return &adminUseCase{
		policy:      policy,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		events:      events,
		log:         logger,
	}
}

// productFromInput validates the admin form and converts the price.
func productFromInput(input domain.ProductInput) (*domain.Product, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	price, err := PriceToMinorUnits(input.Price)
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		Category:    strings.TrimSpace(input.Category),
		Stock:       input.Stock,
		Sizes:       input.Sizes,
		Colors:      input.Colors,
		Images:      input.Images,
		Featured:    input.Featured,
	}, nil
}

func (uc *adminUseCase) CreateProduct(ctx context.Context, caller *domain.Caller, input domain.ProductInput) (*domain.Product, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	created, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create product %q: %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	uc.log.Infof("Use Case: Admin %s created product %s (%s)", caller.UserID, created.ID, created.Name)
	return created, nil
}

func (uc *adminUseCase) UpdateProduct(ctx context.Context, caller *domain.Caller, id string, input domain.ProductInput) (*domain.Product, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}
	product.ID = id

	updated, err := uc.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update product %s: %v", id, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	uc.log.Infof("Use Case: Admin %s updated product %s", caller.UserID, id)
	return updated, nil
}

func (uc *adminUseCase) DeleteProduct(ctx context.Context, caller *domain.Caller, id string) error {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Errorf("Use Case: Failed to delete product %s: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	uc.log.Infof("Use Case: Admin %s deleted product %s", caller.UserID, id)
	return nil
}

func (uc *adminUseCase) ListOrders(ctx context.Context, caller *domain.Caller, status string) ([]domain.Order, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	filter := domain.OrderFilter{}
	if status != "" && status != "all" {
		filter.Status = domain.OrderStatus(status)
		if !domain.IsValidStatus(filter.Status) {
			return nil, domain.NewValidationError("status", "must be one of: pending, completed, cancelled")
		}
	}

	orders, err := uc.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	return orders, nil
}

func (uc *adminUseCase) UpdateOrderStatus(ctx context.Context, caller *domain.Caller, id string, status domain.OrderStatus) (*domain.Order, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if !domain.IsValidStatus(status) {
		return nil, domain.NewValidationError("status", "must be one of: pending, completed, cancelled")
	}

	current, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not load order %s: %w", id, err)
	}
	if current.Status == status {
		uc.log.Infof("Use Case: Order %s already has status %s", id, status)
		return current, nil
	}
	if current.Status == domain.StatusCompleted && status == domain.StatusCancelled {
		uc.log.Warnf("Use Case: Attempt to cancel completed order %s", id)
		return nil, fmt.Errorf("%w: cannot cancel a completed order", domain.ErrInvalidTransition)
	}
	if current.Status == domain.StatusCancelled {
		uc.log.Warnf("Use Case: Attempt to change status of cancelled order %s to %s", id, status)
		return nil, fmt.Errorf("%w: cannot change status of a cancelled order", domain.ErrInvalidTransition)
	}

	updated, err := uc.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update order %s to %s: %v", id, status, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}
	updated.Items = current.Items

	if status == domain.StatusCompleted {
		event := domain.OrderEvent{
			Type:    domain.EventOrderCompleted,
			OrderID: updated.ID,
			UserID:  updated.UserID,
			Total:   updated.Total,
			Items:   len(updated.Items),
		}
		if err := uc.events.PublishOrderEvent(ctx, event); err != nil {
			uc.log.Warnf("Use Case: Failed to publish %s for order %s: %v", event.Type, event.OrderID, err)
		}
	}

	uc.log.Infof("Use Case: Admin %s moved order %s from %s to %s", caller.UserID, id, current.Status, status)
	return updated, nil
}

func (uc *adminUseCase) ListUsers(ctx context.Context, caller *domain.Caller) ([]domain.Profile, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	profiles, err := uc.profileRepo.ListProfiles(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list profiles: %v", err)
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	return profiles, nil
}

func (uc *adminUseCase) ChangeUserRole(ctx context.Context, caller *domain.Caller, userID string, change domain.RoleChange) (*domain.Profile, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if err := validateStruct(change); err != nil {
		return nil, err
	}
	if userID == caller.UserID && change.Role != domain.RoleAdmin {
		return nil, domain.NewValidationError("role", "cannot remove your own admin role")
	}

	profile, err := uc.profileRepo.UpdateRole(ctx, userID, change.Role)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to set role of %s to %s: %v", userID, change.Role, err)
		return nil, fmt.Errorf("could not change role: %w", err)
	}
	uc.log.Infof("Use Case: Admin %s set role of %s to %s", caller.UserID, userID, change.Role)
	return profile, nil
}

// MonthWindow returns the UTC [from, to) range covering the given month.
func MonthWindow(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, domain.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, domain.NewValidationError("year", "must be between 1970 and 9999")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

func (uc *adminUseCase) Dashboard(ctx context.Context, caller *domain.Caller, month, year int) (*DashboardStats, error) {
	if _, err := uc.policy.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	from, to, err := MonthWindow(month, year)
	if err != nil {
		return nil, err
	}

	stats, err := uc.orderRepo.CountOrdersBetween(ctx, from, to)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to aggregate orders for %d-%02d: %v", year, month, err)
		return nil, fmt.Errorf("could not load order stats: %w", err)
	}
	users, err := uc.profileRepo.CountProfiles(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to count profiles: %v", err)
		return nil, fmt.Errorf("could not count users: %w", err)
	}

	return &DashboardStats{
		Month:           month,
		Year:            year,
		Orders:          stats.Orders,
		CompletedOrders: stats.Completed,
		Revenue:         stats.Revenue,
		TotalUsers:      users,
	}, nil
}
