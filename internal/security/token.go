package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vitalpath/admin/internal/models"
)

// Identity is the triple carried by a session token.
type Identity struct {
	AdminID string
	Email   string
	Role    models.Role
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the identity, expiring ttl from now.
func IssueToken(secret string, identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the embedded identity, or nil on any failure: bad
// signature, expiry, malformed input. Callers treat nil as unauthenticated,
// never as a system error.
func VerifyToken(tokenStr string, secret string) *Identity {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil
	}

	return &Identity{
		AdminID: claims.Subject,
		Email:   claims.Email,
		Role:    models.Role(claims.Role),
	}
}
