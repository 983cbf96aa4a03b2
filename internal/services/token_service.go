package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/focusapp/focus-server/internal/types"
)

// GenerateRegisteredToken signs a token for a registered user id.
func GenerateRegisteredToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"userType": types.UserTypeRegistered,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateGuestToken signs a token for a guest temp id.
func GenerateGuestToken(secret []byte, tempID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"tempId":   tempID,
		"userType": types.UserTypeTemp,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a signed token and reconstructs the Principal.
func ParseToken(secret []byte, tokenStr string) (types.Principal, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return types.Principal{}, types.NewUnauthorizedError("invalid or expired token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return types.Principal{}, types.NewUnauthorizedError("malformed token claims")
	}

	userType, _ := claims["userType"].(string)
	switch userType {
	case types.UserTypeRegistered:
		id, _ := claims["id"].(string)
		if id == "" {
			return types.Principal{}, types.NewUnauthorizedError("malformed token claims")
		}
		return types.RegisteredPrincipal(id), nil
	case types.UserTypeTemp:
		tempID, _ := claims["tempId"].(string)
		if tempID == "" {
			return types.Principal{}, types.NewUnauthorizedError("malformed token claims")
		}
		return types.GuestPrincipal(tempID), nil
	}
	return types.Principal{}, types.NewUnauthorizedError("unknown user type")
}
