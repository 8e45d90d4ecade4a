package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionCookieName = "forgeplan_session"

const cookieIssuer = "forgeplan"

// cookieCodec signs and verifies session cookies. The token's jti is the
// session ID.
type cookieCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func (c cookieCodec) issue(id string) (string, time.Time, error) {
	now := c.now()
	expires := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		ID:        id,
		Issuer:    cookieIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return token, expires, nil
}

func (c cookieCodec) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !claims.VerifyIssuer(cookieIssuer, true) {
		return nil, errors.New("session token: wrong issuer")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, fmt.Errorf("session token: bad id: %w", err)
	}
	return claims, nil
}

// stale reports whether claims are past half their lifetime.
func (c cookieCodec) stale(claims *jwt.RegisteredClaims) bool {
	if claims.IssuedAt == nil {
		return true
	}
	return c.now().Sub(claims.IssuedAt.Time) > c.ttl/2
}
