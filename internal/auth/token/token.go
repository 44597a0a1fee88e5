// Package token issues and validates the session tokens handed out after a
// successful login.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "github.com/0xronaldo/backend-zkp-lastproyect/pkg/domain-errors"
)

const issuerName = "zkauth"

// Claims are the session token claims. The subject is the principal's login
// key; the DID travels alongside so API consumers can address the identity
// without a store lookup.
type Claims struct {
	Identity   string `json:"did,omitempty"`
	AuthMethod string `json:"auth_method,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and validates session tokens with a shared HS256 key.
type Service struct {
	signingKey []byte
	tokenTTL   time.Duration
}

// NewService constructs a token service. tokenTTL bounds session lifetime.
func NewService(signingKey string, tokenTTL time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
	}
}

// Issue signs a session token for the principal.
func (s *Service) Issue(loginKey, identity, authMethod string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := Claims{
		Identity:   identity,
		AuthMethod: authMethod,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuerName,
			Subject:   loginKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "sign session token")
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a session token.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	return claims, nil
}
