// Package auth resolves the display name of the administrator using the
// application. It identifies, it does not authorize: a missing or invalid
// token only means no name is shown.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer    = "employees-auth"
	nameClaim = "name"
)

// GenerateToken signs an HS256 token carrying the administrator's name.
func GenerateToken(adminName string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     adminName,
		nameClaim: adminName,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"iss":     issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// validateToken checks the token signature and returns parsed claims if valid.
func validateToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

// adminNameFromToken returns the name claim of a valid token.
func adminNameFromToken(tokenString, secret string) (string, error) {
	claims, err := validateToken(tokenString, secret)
	if err != nil {
		return "", err
	}
	name, ok := claims[nameClaim].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("token has no %q claim", nameClaim)
	}
	return name, nil
}
