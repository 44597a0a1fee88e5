package issuer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver memoizes the issuer node's own DID.
//
// Contract: resolve once on first use, never invalidate within a run. The
// cached value is the only process-wide mutable state in this service; it is
// written at most once, under lock, after the first successful listing.
// Concurrent first callers are collapsed into a single node call.
type Resolver struct {
	api    Lister
	logger *slog.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	cached string
}

// Lister is the slice of the issuer API the resolver depends on.
type Lister interface {
	ListIdentities(ctx context.Context) ([]Identity, error)
}

// NewResolver creates a resolver over the given issuer API.
func NewResolver(api Lister, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, logger: logger}
}

// Resolve returns the issuer's DID, listing identities on first use.
// Every failure is reported as KindUnreachable: without a resolved issuer
// identity no dependent call can proceed.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	v, err, _ := r.group.Do("issuer-did", func() (any, error) {
		// Re-check under the flight: a racing caller may have populated
		// the cache between the read above and entering the group.
		r.mu.RLock()
		cached := r.cached
		r.mu.RUnlock()
		if cached != "" {
			return cached, nil
		}

		identities, err := r.api.ListIdentities(ctx)
		if err != nil {
			return "", NewError(KindUnreachable, "resolve_issuer", "could not list identities", err)
		}
		if len(identities) == 0 {
			return "", NewError(KindUnreachable, "resolve_issuer", "issuer node holds no identities", nil)
		}

		did := identities[0].Identifier
		r.mu.Lock()
		r.cached = did
		r.mu.Unlock()

		r.logger.Info("resolved issuer identity", "issuer_did", did)
		return did, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
