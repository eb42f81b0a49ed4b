// Package auth verifies backend-issued access tokens and resolves the viewer
// they belong to. Session issuance and refresh are owned by the hosted backend.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// RoleAuthenticated is the role claim carried by signed-in users.
const RoleAuthenticated = "authenticated"

// Viewer is the identity resolved from a valid access token.
type Viewer struct {
	ID        uuid.UUID
	Role      string
	Email     string
	ExpiresAt time.Time
}

// accessClaims mirrors the claims set of the backend's access tokens.
type accessClaims struct {
	jwt.RegisteredClaims
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// JWTManager verifies HS256 access tokens. It can also mint tokens, which is
// used by the CLI against a local backend and by tests.
type JWTManager struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
	now       func() time.Time
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret, issuer, audience string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
		now:       time.Now,
	}
}

// GenerateAccessToken creates a signed token for userID.
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	now := m.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:  RoleAuthenticated,
		Email: email,
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates an access token.
// Every failure wraps domain.ErrUnauthorized.
func (m *JWTManager) Verify(tokenString string) (Viewer, error) {
	if tokenString == "" {
		return Viewer{}, fmt.Errorf("token is empty: %w", domain.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithIssuer(m.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Viewer{}, fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
		}
		return Viewer{}, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return Viewer{}, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	if claims.Role != RoleAuthenticated {
		return Viewer{}, fmt.Errorf("role %q is not signed in: %w", claims.Role, domain.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Viewer{}, fmt.Errorf("invalid subject UUID: %v: %w", err, domain.ErrUnauthorized)
	}

	v := Viewer{ID: userID, Role: claims.Role, Email: claims.Email}
	if claims.ExpiresAt != nil {
		v.ExpiresAt = claims.ExpiresAt.Time
	}
	return v, nil
}

// Authenticate verifies token and returns ctx carrying the viewer ID.
func (m *JWTManager) Authenticate(ctx context.Context, token string) (context.Context, Viewer, error) {
	v, err := m.Verify(token)
	if err != nil {
		return ctx, Viewer{}, err
	}
	return ctxutil.WithUserID(ctx, v.ID), v, nil
}
