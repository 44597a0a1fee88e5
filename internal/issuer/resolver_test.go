package issuer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	calls      atomic.Int64
	identities []Identity
	err        error
}

func (f *fakeLister) ListIdentities(_ context.Context) ([]Identity, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.identities, nil
}

func TestResolverCachesFirstSuccess(t *testing.T) {
	lister := &fakeLister{identities: []Identity{{Identifier: "did:polygonid:polygon:amoy:issuer"}}}
	r := NewResolver(lister, nil)

	did, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "did:polygonid:polygon:amoy:issuer", did)

	// Second resolve must not hit the node again.
	_, err = r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), lister.calls.Load())
}

func TestResolverFailureIsUnreachableAndNotCached(t *testing.T) {
	lister := &fakeLister{err: errors.New("connection refused")}
	r := NewResolver(lister, nil)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnreachable, KindOf(err))

	// Recover the node and resolution succeeds on the next attempt.
	lister.err = nil
	lister.identities = []Identity{{Identifier: "did:iss"}}
	did, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "did:iss", did)
}

func TestResolverEmptyListIsUnreachable(t *testing.T) {
	lister := &fakeLister{}
	r := NewResolver(lister, nil)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindUnreachable, KindOf(err))
}

func TestResolverCollapsesConcurrentResolution(t *testing.T) {
	lister := &fakeLister{identities: []Identity{{Identifier: "did:iss"}}}
	r := NewResolver(lister, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			did, err := r.Resolve(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "did:iss", did)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), lister.calls.Load())
}
