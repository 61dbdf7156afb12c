package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Chathuranga-Niroshana/ceyacc-backend/internal/domain/user"
)

var (
	// ErrInvalidToken - the token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired - the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims carries the identity baked into an access token.
type Claims struct {
	Role user.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenManager creates a TokenManager.
func NewTokenManager(secret string, ttl time.Duration, issuer string) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
	}
}

// Issue creates a signed access token for a user.
func (m *TokenManager) Issue(u *user.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the embedded identity.
func (m *TokenManager) Verify(tokenString string) (user.UserID, user.Role, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, 0, ErrTokenExpired
		}
		return 0, 0, ErrInvalidToken
	}
	if !token.Valid {
		return 0, 0, ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, ErrInvalidToken
	}

	return user.UserID(id), claims.Role, nil
}
