package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func IsValidRole(role Role) bool {
	return role == RoleUser || role == RoleAdmin
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Caller is the identity resolved from a request's access token.
type Caller struct {
	UserID string
	Email  string
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name      *string `json:"name"       validate:"omitempty,max=100"`
	Phone     *string `json:"phone"      validate:"omitempty,max=30"`
	Address   *string `json:"address"    validate:"omitempty,max=300"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type RoleChange struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *Profile) (*Profile, error)
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Profile, error)
	UpdateRole(ctx context.Context, id string, role Role) (*Profile, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	CountProfiles(ctx context.Context) (int, error)
}
