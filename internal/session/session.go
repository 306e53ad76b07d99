// Package session mints the opaque session_id spec.md returns on
// successful verification. spec.md leaves session_id semantics beyond
// opacity unspecified (§9); this implementation mints it as a signed JWT
// so a downstream service can validate it without another round trip to
// the verifier, grounded on the teacher corpus's own JWT middleware
// (DanDo385-go-edu/minis/35-jwt-auth-middleware).
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload minted for a successfully verified attempt.
type Claims struct {
	User   string `json:"user"`
	AuthID string `json:"auth_id"`
	jwt.RegisteredClaims
}

// Issuer mints and validates session tokens. It satisfies
// internal/verifier.SessionIssuer.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer signing with secret and minting tokens
// with the given time-to-live.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue mints a signed session_id for user's successful attempt authID.
func (iss *Issuer) Issue(user, authID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		User:   user,
		AuthID: authID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(iss.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user,
			Issuer:    "zkp-verifier",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(iss.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session_id previously minted by Issue.
func (iss *Issuer) Validate(sessionID string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(sessionID, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Guard against algorithm-confusion attacks: only accept HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return iss.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("session: invalid token")
	}
	return claims, nil
}
