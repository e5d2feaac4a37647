package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func SignJWT(secret string, userID string, tokenType string, expiresMin int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiresMin) * time.Minute)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// SignTokenPair mints the access/refresh pair returned by login and refresh.
func SignTokenPair(secret string, userID string, accessMin, refreshMin int) (access string, refresh string, err error) {
	access, err = SignJWT(secret, userID, TokenAccess, accessMin)
	if err != nil {
		return "", "", err
	}
	refresh, err = SignJWT(secret, userID, TokenRefresh, refreshMin)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func ParseJWT(secret string, tokenStr string, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" || claims.TokenType != wantType {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
