package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionRole = "admin"

// newSessionToken выпускает подписанный HS256 токен админской сессии.
func (g *Gate) newSessionToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": sessionRole,
		"iat":  now.Unix(),
		"exp":  now.Add(g.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify checks a session token issued by this gate.
// Returns ErrInvalidSession for a malformed, forged or expired token.
func (g *Gate) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidSession
	}
	if role, _ := claims["role"].(string); role != sessionRole {
		return ErrInvalidSession
	}

	return nil
}
