// Package auth issues and verifies the JWT session pair and hashes user
// passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// RefreshClaims is the payload of a long-lived refresh token. Only the
// user id travels in it; the rest is reloaded from the users table.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// TokenManager signs and verifies both token kinds. Access and refresh
// tokens use separate secrets so one can never be replayed as the other.
type TokenManager struct {
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewTokenManager(accessSecret string, accessValidity time.Duration, refreshSecret string, refreshValidity time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:                 []byte(accessSecret),
		refreshSecret:                []byte(refreshSecret),
		accessTokenValidityDuration:  accessValidity,
		refreshTokenValidityDuration: refreshValidity,
	}
}

func (m *TokenManager) AccessTokenValidity() time.Duration  { return m.accessTokenValidityDuration }
func (m *TokenManager) RefreshTokenValidity() time.Duration { return m.refreshTokenValidityDuration }

func (m *TokenManager) registeredClaims(validity time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
	}
}

func (m *TokenManager) GenerateAccessToken(userID, name, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: m.registeredClaims(m.accessTokenValidityDuration),
		UserID:           userID,
		Name:             name,
		Email:            email,
	})

	tokenString, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	return tokenString, nil
}

func (m *TokenManager) GenerateRefreshToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: m.registeredClaims(m.refreshTokenValidityDuration),
		UserID:           userID,
	})

	tokenString, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	return tokenString, nil
}

func (m *TokenManager) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(tokenString, claims, m.accessSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) ParseRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(tokenString, claims, m.refreshSecret); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// parse verifies signature and expiry. Only HS256 is accepted.
func parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}

	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
