package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies access and refresh tokens, each with its
// own secret and lifetime.
type TokenSigner struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Now           func() time.Time
}

func (s *TokenSigner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenSigner) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *TokenSigner) parse(tokenStr string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *TokenSigner) AccessToken(userID string) (string, error) {
	return s.sign(userID, s.AccessSecret, s.AccessTTL)
}

func (s *TokenSigner) RefreshToken(userID string) (string, error) {
	return s.sign(userID, s.RefreshSecret, s.RefreshTTL)
}

// ParseAccess validates an access token.
func (s *TokenSigner) ParseAccess(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, s.AccessSecret)
}

// ParseRefresh validates a refresh token.
func (s *TokenSigner) ParseRefresh(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, s.RefreshSecret)
}
