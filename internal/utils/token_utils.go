package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/bukubesar/internal/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateActorToken signs an HS256 token naming actor and the capability
// claims it may assert. The ledger never issues tokens itself; this serves
// operators and tests that need one.
func GenerateActorToken(actor string, caps []string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if actor == "" {
		return "", errors.New("actor is required")
	}
	now := time.Now()
	claims := middleware.ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		Capabilities: caps,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
