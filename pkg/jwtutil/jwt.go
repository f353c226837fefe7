package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/Solomon-mithra/CRM-backend/pkg/config"
	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired is returned when a token's expiry claim has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for malformed tokens or bad signatures.
	ErrTokenInvalid = errors.New("invalid token")
)

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTUtil issues and verifies signed session tokens. The signing key and
// default token lifetime are fixed at construction and never change.
type JWTUtil struct {
	signingKey []byte
	defaultTTL time.Duration
}

// New creates a JWT utility from the given configuration
func New(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		defaultTTL: time.Duration(cfg.ExpireMinutes) * time.Minute,
	}
}

// GenerateToken creates a signed token with the configured default lifetime
func (j *JWTUtil) GenerateToken(userID uint, username string) (string, error) {
	return j.GenerateTokenWithTTL(userID, username, j.defaultTTL)
}

// GenerateTokenWithTTL creates a signed token that expires after ttl
func (j *JWTUtil) GenerateTokenWithTTL(userID uint, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// ValidateToken validates and parses the JWT token. Expired tokens are
// reported as ErrTokenExpired, everything else as ErrTokenInvalid.
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return j.signingKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
