package usecase

import (
	"context"
	"testing"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileCreatesOnFirstAccess(t *testing.T) {
	logger, _ := test.NewNullLogger()
	profiles := newFakeProfileRepo()
	uc := NewProfileUseCase(profiles, newFakeOrderRepo(), logger)

	profile, err := uc.GetProfile(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, profile.Email)
	assert.Equal(t, domain.RoleUser, profile.Role)
	assert.Contains(t, profiles.profiles, alice.UserID)
}

func TestUpdateProfile(t *testing.T) {
	logger, _ := test.NewNullLogger()
	profiles := newFakeProfileRepo(domain.Profile{ID: alice.UserID, Email: alice.Email, Name: "Old", Role: domain.RoleUser})
	uc := NewProfileUseCase(profiles, newFakeOrderRepo(), logger)

	name := "Alice"
	phone := "+1 555 0100"
	profile, err := uc.UpdateProfile(context.Background(), alice, domain.ProfileUpdate{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Alice", profile.Name)
	assert.Equal(t, phone, profile.Phone)
	assert.Equal(t, domain.RoleUser, profile.Role)

	bad := "not-a-url"
	_, err = uc.UpdateProfile(context.Background(), alice, domain.ProfileUpdate{AvatarURL: &bad})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "avatar_url")
}

func TestOrderHistoryOnlyOwnOrders(t *testing.T) {
	logger, _ := test.NewNullLogger()
	orders := newFakeOrderRepo()
	orders.orders["a"] = &domain.Order{ID: "a", UserID: alice.UserID}
	orders.orders["b"] = &domain.Order{ID: "b", UserID: "bob"}
	uc := NewProfileUseCase(newFakeProfileRepo(), orders, logger)

	history, err := uc.OrderHistory(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a", history[0].ID)

	_, err = uc.OrderHistory(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrAuthenticationRequired)
}

func TestPriceToMinorUnits(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "19.99", want: 1999},
		{in: "10", want: 1000},
		{in: "0.005", want: 1},
		{in: " 3.333 ", want: 333},
		{in: "0", wantErr: true},
		{in: "-1.00", wantErr: true},
		{in: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PriceToMinorUnits(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
