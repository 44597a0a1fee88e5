// Package models holds the principal records and request shapes of the auth
// module.
package models

import (
	"strings"
	"time"

	credmodels "github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
)

// VerificationMark records the outcome of the most recent credential
// verification for a principal.
type VerificationMark struct {
	At       time.Time `json:"at"`
	Verified bool      `json:"verified"`
	Stage    string    `json:"stage,omitempty"`
	Reason   string    `json:"reason,omitempty"`
}

// PrincipalRecord is the stored account for one registered principal.
// The login key is the normalized email for password principals and the
// normalized wallet address for wallet principals.
//
// Updates replace the whole record; stores never merge fields.
type PrincipalRecord struct {
	LoginKey         string                  `json:"login_key"`
	AuthMethod       string                  `json:"auth_method"`
	PasswordDigest   string                  `json:"password_digest,omitempty"`
	FullName         string                  `json:"full_name"`
	Email            string                  `json:"email,omitempty"`
	WalletAddress    string                  `json:"wallet_address,omitempty"`
	Identity         string                  `json:"identity"`
	Credential       *credmodels.Credential  `json:"credential,omitempty"`
	LastVerification *VerificationMark       `json:"last_verification,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// HasCredential reports whether the principal holds a stored credential.
func (p *PrincipalRecord) HasCredential() bool {
	return p != nil && p.Credential != nil
}

// NormalizeLoginKey canonicalizes a login identifier. Lookups are
// case-insensitive: "Ada@Example.com" and "ada@example.com" are the same
// principal.
func NormalizeLoginKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// RegisterInput is the service-level registration request. Exactly one of
// (Email, Password) or WalletAddress identifies the principal.
type RegisterInput struct {
	FullName      string
	Email         string
	Password      string
	WalletAddress string
	BirthDate     string
}

// LoginInput is the service-level login request.
type LoginInput struct {
	Email         string
	Password      string
	WalletAddress string
	UserAgent     string
}

// AuthMethod derives the auth method from the populated fields.
func (in RegisterInput) AuthMethod() string {
	if in.WalletAddress != "" {
		return credmodels.AuthMethodWallet
	}
	return credmodels.AuthMethodPassword
}

// LoginKey derives the normalized login key from the populated fields.
func (in RegisterInput) LoginKey() string {
	if in.WalletAddress != "" {
		return NormalizeLoginKey(in.WalletAddress)
	}
	return NormalizeLoginKey(in.Email)
}

// AuthMethod derives the auth method from the populated fields.
func (in LoginInput) AuthMethod() string {
	if in.WalletAddress != "" {
		return credmodels.AuthMethodWallet
	}
	return credmodels.AuthMethodPassword
}

// LoginKey derives the normalized login key from the populated fields.
func (in LoginInput) LoginKey() string {
	if in.WalletAddress != "" {
		return NormalizeLoginKey(in.WalletAddress)
	}
	return NormalizeLoginKey(in.Email)
}
