package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

var _ domain.IdentityOracle = (*JWTIdentityVerifier)(nil)

// accessClaims is the payload of the identity provider's access tokens.
type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIdentityVerifier checks HS256 access tokens signed with the identity
// provider's shared secret.
type JWTIdentityVerifier struct {
	secret []byte
	log    *logrus.Logger
}

func NewJWTIdentityVerifier(secret string, logger *logrus.Logger) (*JWTIdentityVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("identity token secret must not be empty")
	}
	return &JWTIdentityVerifier{
		secret: []byte(secret),
		log:    logger,
	}, nil
}

func (v *JWTIdentityVerifier) Verify(_ context.Context, token string) (*domain.Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(v.secret) == 0 {
		return nil, domain.ErrAuthenticationRequired
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		v.log.Warnf("Identity: Rejected access token: %v", err)
		return nil, fmt.Errorf("%w: invalid or expired token", domain.ErrAuthenticationRequired)
	}
	if claims.Subject == "" {
		v.log.Warn("Identity: Access token has no subject")
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrAuthenticationRequired)
	}

	if claims.ExpiresAt == nil {
		v.log.Warnf("Identity: Access token for %s has no expiry", claims.Subject)
		return nil, fmt.Errorf("%w: token has no expiry", domain.ErrAuthenticationRequired)
	}

	return &domain.Caller{UserID: claims.Subject, Email: claims.Email}, nil
}
