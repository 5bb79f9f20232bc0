// internal/pkg/token/token.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidToken = errors.New("token is invalid")
)

// Claims is the payload carried by an access token.
type Claims struct {
	UserName string `json:"name"`
	jwt.StandardClaims
}

// Maker issues and verifies HMAC-signed access tokens. The secret and
// lifetime come from configuration; there are no package-level globals.
type Maker struct {
	secret   []byte
	lifetime time.Duration
}

func NewMaker(secret string, lifetime time.Duration) (*Maker, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &Maker{secret: []byte(secret), lifetime: lifetime}, nil
}

// Issue signs a token for the given account name.
func (m *Maker) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserName: username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(m.lifetime).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
func (m *Maker) Verify(tokenString string) (*Claims, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, keyFunc)
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
