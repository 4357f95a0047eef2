// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package tokencodec produces and verifies self-contained signed,
// expiring claim sets. One codec instance exists per token purpose
// (bearer, refresh, password reset), each with its own secret and
// lifetime, so a token issued for one purpose can never verify against
// another codec.
package tokencodec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"codeberg.org/oliverandrich/authcore/internal/autherr"
)

// Codec signs and verifies tokens with HMAC-SHA256.
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

// New creates a codec for one token purpose.
func New(secret string, lifetime time.Duration) *Codec {
	return &Codec{secret: []byte(secret), lifetime: lifetime}
}

// Issue signs the given claims plus an expiry (now + lifetime), an issue
// timestamp and a unique token id.
func (c *Codec) Issue(claims map[string]any) (string, error) {
	now := time.Now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["exp"] = jwt.NewNumericDate(now.Add(c.lifetime))
	mc["iat"] = jwt.NewNumericDate(now)
	mc["jti"] = uuid.NewString()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and requires a future expiry claim. It
// returns the claim map on success and ErrInvalidToken on any failure:
// malformed token, wrong signature, missing or past exp.
func (c *Codec) Verify(token string) (map[string]any, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, autherr.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherr.ErrInvalidToken
	}
	return claims, nil
}

// ExpiresAt extracts the expiry timestamp from a verified claim map.
func ExpiresAt(claims map[string]any) (time.Time, bool) {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}
