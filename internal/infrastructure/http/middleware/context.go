package middleware

import (
	"context"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/security"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated user behind a request
type Principal struct {
	UserID    uuid.UUID
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// Claims rebuilds the session claims needed to revoke the principal's token
func (p *Principal) Claims() *security.Claims {
	claims := &security.Claims{
		Username:  p.Username,
		TokenType: security.SessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: p.UserID.String(),
			ID:      p.TokenID,
		},
	}
	if !p.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(p.ExpiresAt)
	}
	return claims
}

// WithPrincipal stores the principal in the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the request's principal, or nil when anonymous
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
