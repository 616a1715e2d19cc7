// Package security provides session tokens and request rate limiting
package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/ports/outbound"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	issuer   = "recipebox"
	audience = "recipebox-web"

	csrfLifetime = 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenType represents different types of JWT tokens
type TokenType string

const (
	SessionToken TokenType = "session"
	CSRFToken    TokenType = "csrf"
)

// Claims represents JWT claims structure
type Claims struct {
	Username  string    `json:"username,omitempty"`
	TokenType TokenType `json:"token_type"`
	SessionID string    `json:"session_id,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a uuid
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// AuthService issues and validates signed session tokens. Revoked token ids
// are kept in the cache until the token would have expired anyway.
type AuthService struct {
	secret     []byte
	expiration time.Duration
	cookieName string
	secure     bool
	cache      outbound.CacheRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg config.AuthConfig, cache outbound.CacheRepository, logger *zap.Logger) *AuthService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "recipebox_session"
	}

	return &AuthService{
		secret:     []byte(cfg.JWTSecret),
		expiration: expiration,
		cookieName: cookieName,
		secure:     cfg.SecureCookie,
		cache:      cache,
		logger:     logger.Named("auth"),
		now:        time.Now,
	}
}

// IssueSessionToken signs a session token for the user
func (a *AuthService) IssueSessionToken(userID uuid.UUID, username string) (string, *Claims, error) {
	now := a.now()
	claims := &Claims{
		Username:  username,
		TokenType: SessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token, err := a.sign(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// IssueCSRFToken signs a CSRF token bound to a session token id
func (a *AuthService) IssueCSRFToken(sessionID string) (string, error) {
	now := a.now()
	claims := &Claims{
		TokenType: CSRFToken,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(csrfLifetime)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	return a.sign(claims)
}

func (a *AuthService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ValidateToken parses a token and checks its type. Session tokens are also
// checked against the revocation list.
func (a *AuthService) ValidateToken(ctx context.Context, tokenString string, expected TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expected {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidToken, expected, claims.TokenType)
	}

	if expected == SessionToken {
		revoked, err := a.cache.Exists(ctx, revokedKey(claims.ID))
		if err != nil {
			a.logger.Warn("Failed to check token revocation", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// ValidateCSRFToken checks that a CSRF token belongs to the session
func (a *AuthService) ValidateCSRFToken(ctx context.Context, tokenString, sessionID string) error {
	claims, err := a.ValidateToken(ctx, tokenString, CSRFToken)
	if err != nil {
		return err
	}
	if claims.SessionID != sessionID {
		return fmt.Errorf("%w: csrf token session mismatch", ErrInvalidToken)
	}
	return nil
}

// RevokeToken adds the token id to the revocation list
func (a *AuthService) RevokeToken(ctx context.Context, claims *Claims) error {
	ttl := a.expiration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(a.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := a.cache.Set(ctx, revokedKey(claims.ID), []byte("revoked"), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	a.logger.Info("Session token revoked", zap.String("user_id", claims.Subject), zap.String("token_id", claims.ID))
	return nil
}

// TokenFromRequest reads a bearer token from the Authorization header, or
// the session cookie when there is none
func (a *AuthService) TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(a.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionCookie builds the cookie carrying a session token
func (a *AuthService) SessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds a cookie that removes the session
func (a *AuthService) ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
