package usecase

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// Authorizer decides whether a caller may use the back-office.
type Authorizer interface {
	RequireAdmin(ctx context.Context, caller *domain.Caller) (*domain.Profile, error)
}

var _ Authorizer = (*AccessPolicy)(nil)

type AccessPolicy struct {
	profileRepo domain.ProfileRepository
	log         *logrus.Logger
}

func NewAccessPolicy(repo domain.ProfileRepository, logger *logrus.Logger) *AccessPolicy {
	return &AccessPolicy{
		profileRepo: repo,
		log:         logger,
	}
}

// RequireAdmin returns the caller's profile when its role is admin.
func (p *AccessPolicy) RequireAdmin(ctx context.Context, caller *domain.Caller) (*domain.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	profile, err := p.profileRepo.GetProfileByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.log.Warnf("Use Case: Admin access denied, no profile for user %s", caller.UserID)
			return nil, domain.ErrForbidden
		}
		p.log.Errorf("Use Case: Failed to load profile %s for admin check: %v", caller.UserID, err)
		return nil, fmt.Errorf("could not check access: %w", err)
	}

	if profile.Role != domain.RoleAdmin {
		p.log.Warnf("Use Case: Admin access denied for user %s with role %s", caller.UserID, profile.Role)
		return nil, domain.ErrForbidden
	}
	return profile, nil
}
