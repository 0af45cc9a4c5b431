package utils

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

// TokenClaims carries the caller identity the booking API needs.
type TokenClaims struct {
	UserID   string
	TenantID string
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// ExtractClaims validates the token and returns its subject and tenant.
func ExtractClaims(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	tenant, ok := claims["tenant"].(string)
	if !ok || tenant == "" {
		return nil, errors.New("token does not contain a valid 'tenant' claim")
	}

	return &TokenClaims{UserID: sub, TenantID: tenant}, nil
}
