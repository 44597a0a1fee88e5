// Package store persists principal records.
//
// Error contract shared by every backend:
//   - lookups for an absent login key wrap sentinel.ErrNotFound
//   - creating an existing login key wraps sentinel.ErrInvalidState
//   - infrastructure failures are wrapped with operation context
//
// Save replaces the whole record. Callers construct the complete new state
// and hand it over; stores never merge.
package store

import (
	"context"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
)

// Store persists principal records keyed by normalized login key.
type Store interface {
	// Create inserts a new principal. Fails when the login key is taken.
	Create(ctx context.Context, record *models.PrincipalRecord) error

	// Save replaces the stored record for the record's login key.
	Save(ctx context.Context, record *models.PrincipalRecord) error

	// Find returns the principal for the given login key. The key is
	// normalized before lookup.
	Find(ctx context.Context, loginKey string) (*models.PrincipalRecord, error)

	// Delete removes the principal for the given login key.
	Delete(ctx context.Context, loginKey string) error
}
