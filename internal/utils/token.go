package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/bazaar/internal/models"
)

// ErrNotRefreshToken is returned when a token of the wrong type is
// presented to the refresh endpoint.
var ErrNotRefreshToken = errors.New("not a refresh token")

// Claims carried by access tokens. Birthday uses YYYY-MM-DD.
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair bundles a signed access and refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateTokenPair signs an access/refresh pair for the user. Identity
// claims are embedded in the access token only; the refresh token carries
// just the subject.
func GenerateTokenPair(secret string, user *models.User, accessTTL, refreshTTL time.Duration) (TokenPair, error) {
	now := time.Now()

	access := Claims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if user.Username != nil {
		access.Username = *user.Username
	}
	if user.Birthday != nil {
		access.Birthday = user.Birthday.Format("2006-01-02")
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(secret))
	if err != nil {
		return TokenPair{}, err
	}

	refresh := Claims{
		UserID:    user.ID.String(),
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(secret))
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: accessToken, Refresh: refreshToken}, nil
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

// ParseRefreshToken validates a refresh token and returns the user ID.
func ParseRefreshToken(secret, tokenString string) (uuid.UUID, error) {
	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != "refresh" {
		return uuid.Nil, ErrNotRefreshToken
	}
	return uuid.Parse(claims.UserID)
}

// GenerateOpaqueKey produces the random key stored in an AuthToken.
func GenerateOpaqueKey() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
