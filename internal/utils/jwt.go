// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleFarmer   = "farmer"
	RoleCustomer = "customer"

	tokenIssuer = "farmdirect"
)

type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte("farmdirect-dev-secret-change-in-production")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateJWT signs a token whose subject is the farmer id or the
// customer's Google account id, depending on role.
func GenerateJWT(subject, email, name, role string, ttlHours int) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateJWT(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		if claims.Issuer != tokenIssuer {
			return nil, errors.New("unexpected issuer")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
