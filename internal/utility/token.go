package utility

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// AdminClaims is the payload of an admin session token.
type AdminClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenManager signs and checks HS256 admin tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// GenerateAdminToken returns a signed token for the admin that expires after the manager's ttl.
func (m *TokenManager) GenerateAdminToken(id, email string) (string, error) {
	now := time.Now()
	claims := &AdminClaims{
		ID:    id,
		Email: email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateAdminToken parses signedToken. Every failure wraps ErrUnauthorized.
func (m *TokenManager) ValidateAdminToken(signedToken string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(signedToken, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("token is expired: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("token is invalid: %w", ErrUnauthorized)
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("token is invalid: %w", ErrUnauthorized)
	}
	return claims, nil
}
