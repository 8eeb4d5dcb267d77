// Package auth covers the credential primitives: session token issuance and
// password hashing. Both are stateless given their configuration and safe
// for concurrent use.
package auth

import (
	"time"

	"github.com/dkarpov/shopgraph/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a session token. Subject is the user's
// handle; IssuedAt and ExpiresAt come from the registered claim set.
type Claims struct {
	jwt.RegisteredClaims
}

// Handle returns the subject identity the token was issued for.
func (c *Claims) Handle() string {
	return c.Subject
}

// TokenIssuer mints and verifies HS256-signed session tokens. The secret is
// immutable after construction.
type TokenIssuer struct {
	secretKey        []byte
	validityDuration time.Duration
}

func NewTokenIssuer(secretKey []byte, validityDuration time.Duration) *TokenIssuer {
	return &TokenIssuer{secretKey: secretKey, validityDuration: validityDuration}
}

// Issue builds a claim set {sub: handle, iat, exp} and signs it. Expiry is
// validityDuration from now.
func (i *TokenIssuer) Issue(handle string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   handle,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validityDuration)),
		},
	})

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Any failure — malformed input, wrong algorithm, bad signature, expired
// token — is reported as common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
