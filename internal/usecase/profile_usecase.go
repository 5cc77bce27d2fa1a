package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

type ProfileUseCase interface {
	GetProfile(ctx context.Context, caller *domain.Caller) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, caller *domain.Caller, update domain.ProfileUpdate) (*domain.Profile, error)
	OrderHistory(ctx context.Context, caller *domain.Caller) ([]domain.Order, error)
}

type profileUseCase struct {
	profileRepo domain.ProfileRepository
	orderRepo   domain.OrderRepository
	log         *logrus.Logger
}

func NewProfileUseCase(profileRepo domain.ProfileRepository, orderRepo domain.OrderRepository, logger *logrus.Logger) ProfileUseCase {
	return &profileUseCase{
		profileRepo: profileRepo,
		orderRepo:   orderRepo,
		log:         logger,
	}
}

// GetProfile returns the caller's profile, creating it with the user role
// on first access.
func (uc *profileUseCase) GetProfile(ctx context.Context, caller *domain.Caller) (*domain.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetProfileByID(ctx, caller.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		uc.log.Errorf("Use Case: Failed to load profile %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not load profile: %w", err)
	}

	uc.log.Infof("Use Case: Creating profile for new user %s", caller.UserID)
	profile, err = uc.profileRepo.CreateProfile(ctx, &domain.Profile{
		ID:    caller.UserID,
		Email: caller.Email,
		Role:  domain.RoleUser,
	})
	if err != nil {
		uc.log.Errorf("Use Case: Failed to create profile %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not create profile: %w", err)
	}
	return profile, nil
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, caller *domain.Caller, update domain.ProfileUpdate) (*domain.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(update); err != nil {
		return nil, err
	}
	if _, err := uc.GetProfile(ctx, caller); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.UpdateProfile(ctx, caller.UserID, update)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to update profile %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not update profile: %w", err)
	}
	uc.log.Infof("Use Case: Profile %s updated", caller.UserID)
	return profile, nil
}

func (uc *profileUseCase) OrderHistory(ctx context.Context, caller *domain.Caller) ([]domain.Order, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	orders, err := uc.orderRepo.ListOrdersByUserID(ctx, caller.UserID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to list orders of user %s: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not load order history: %w", err)
	}
	return orders, nil
}
