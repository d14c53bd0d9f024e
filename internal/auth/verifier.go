package auth

import (
	"fmt"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload the identity provider issues for a user.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens and yields the caller's user ID.
// With an empty secret it runs in insecure passthrough mode: callers
// identify themselves by plain user ID. That mode exists for local
// development only.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Insecure reports whether token verification is disabled.
func (v *Verifier) Insecure() bool {
	return len(v.secret) == 0
}

// Verify parses and validates a token, returning the embedded user ID.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.UserID, nil
}

// Sign issues a token for a user. Used by tests and local tooling; the
// real identity provider signs tokens in production.
func Sign(userID, secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
