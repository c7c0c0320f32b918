// Package auth implements the credential primitives of the server: signed
// session tokens and one-way password hashing.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/irezaei/memberhub/internal/common"
	"github.com/irezaei/memberhub/internal/server/models"
)

// Claims asserts a member identity and role, plus the registered expiry
// and issued-at claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
}

// GenerateToken mints an HS256-signed token asserting {userID, role} valid
// for validityDuration from now.
func GenerateToken(userID string, role models.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the asserted
// identity. An expired token yields common.ErrTokenExpired; any other
// failure (malformed input, wrong signature, non-HMAC alg) yields
// common.ErrInvalidToken. No jwt library error escapes this boundary.
func ParseToken(tokenString string, secretKey []byte) (string, models.Role, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", common.ErrTokenExpired
		}
		return "", "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", "", common.ErrInvalidToken
	}

	return claims.UserID, claims.Role, nil
}
