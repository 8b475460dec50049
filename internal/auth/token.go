// Package auth issues and verifies the bearer tokens that gate the staff and
// admin surfaces. Tokens are plain HS256 JWTs carrying the user id, email and
// role; there is no refresh flow -- an expired or invalid token means a 401
// and a fresh login, unconditionally.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/cinetick/cinema-pos/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated principal extracted from a bearer token.
type Identity struct {
	UserID int
	Email  string
	Role   domain.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role.IsAdmin()
}

func (i Identity) IsStaff() bool {
	return i.Role.IsStaff()
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "cinema-pos",
	}
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Issue(user *domain.User) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.issuer,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	})

	return token.SignedString(tm.secret)
}

func (tm *TokenManager) Verify(raw string) (*Identity, error) {
	var c claims

	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return tm.secret, nil
	}, jwt.WithIssuer(tm.issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	var userID int
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil {
		return nil, ErrInvalidToken
	}

	role := domain.Role(c.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleClient:
	default:
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID: userID,
		Email:  c.Email,
		Role:   role,
	}, nil
}
