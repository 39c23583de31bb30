// Package token signs and verifies the JWTs used as access and refresh
// credentials. Signing is pure: the caller provides the secret and TTL, so the
// same code mints both token kinds.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret      = errors.New("signing secret is empty")
	ErrMalformed        = errors.New("token is malformed")
	ErrExpired          = errors.New("token is expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
)

// Claims carries the subject user ID next to the registered claims. Nonce is
// the issuance timestamp in milliseconds so two tokens minted for the same
// user within the same second are never byte-identical.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
	Nonce  int64 `json:"nonce"`
}

func Sign(userID int64, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	now := time.Now()
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Nonce:  now.UnixMilli(),
	})

	signed, err := claims.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return signed, nil
}

func Verify(tokenStr string, secret string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case err != nil:
		return nil, err
	}

	if !parsed.Valid {
		return nil, ErrInvalidSignature
	}

	return claims, nil
}
