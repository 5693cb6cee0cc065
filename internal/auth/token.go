// ABOUTME: JWT session token issuing and verification for the HTTP API
// ABOUTME: Uses HS256 signing with configurable secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kruxfin/support-gateway/internal/identity"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// DefaultSessionTTL is how long a login session token stays valid.
const DefaultSessionTTL = 12 * time.Hour

// TokenVerifier defines the interface for session token verification
type TokenVerifier interface {
	Verify(tokenString string) (userID, name string, role identity.Role, err error)
}

// SessionTokens issues and verifies HS256-signed session tokens.
type SessionTokens struct {
	secret []byte
}

// NewSessionTokens creates a token issuer/verifier with the given secret.
func NewSessionTokens(secret []byte) *SessionTokens {
	return &SessionTokens{secret: secret}
}

// Issue creates a session token for the given user.
func (s *SessionTokens) Issue(user *identity.User, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(expiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates the token and extracts the user id, display name, and
// role. The name claim matters for transient identities, which exist nowhere
// but in the token.
func (s *SessionTokens) Verify(tokenString string) (string, string, identity.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", "", ErrExpiredToken
		}
		return "", "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return sub, name, identity.Role(role), nil
}
