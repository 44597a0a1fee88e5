package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	credmodels "github.com/0xronaldo/backend-zkp-lastproyect/internal/credential/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
)

func testRecord(loginKey string) *models.PrincipalRecord {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	return &models.PrincipalRecord{
		LoginKey:   loginKey,
		AuthMethod: credmodels.AuthMethodPassword,
		FullName:   "Ada Lovelace",
		Email:      loginKey,
		Identity:   "did:polygonid:polygon:amoy:2qSubject",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestMemoryStoreCreateAndFind(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	found, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", found.FullName)
}

func TestMemoryStoreFindIsCaseInsensitive(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	found, err := s.Find(ctx, "Ada@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", found.LoginKey)
}

func TestMemoryStoreCreateDuplicateFails(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	err := s.Create(ctx, testRecord("ADA@example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrInvalidState))
}

func TestMemoryStoreSaveReplacesRecord(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	replacement := testRecord("ada@example.com")
	replacement.LastVerification = &models.VerificationMark{Verified: true}
	require.NoError(t, s.Save(ctx, replacement))

	found, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.LastVerification)
	assert.True(t, found.LastVerification.Verified)
}

func TestMemoryStoreFindReturnsDetachedRecord(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	found, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	found.FullName = "Mallory"
	found.LastVerification = &models.VerificationMark{Verified: false}

	// Mutations on the found record stay with the caller until Save.
	stored, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.FullName)
	assert.Nil(t, stored.LastVerification)
}

func TestMemoryStoreWritesDetachFromCaller(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	record := testRecord("ada@example.com")
	record.LastVerification = &models.VerificationMark{Verified: true}
	require.NoError(t, s.Create(ctx, record))

	record.FullName = "Mallory"
	record.LastVerification.Verified = false

	stored, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", stored.FullName)
	assert.True(t, stored.LastVerification.Verified)
}

func TestMemoryStoreConcurrentFindAndMutate(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				found, err := s.Find(ctx, "ada@example.com")
				assert.NoError(t, err)
				found.LastVerification = &models.VerificationMark{Verified: true}
				found.UpdatedAt = time.Now()
				assert.NoError(t, s.Save(ctx, found))
			}
		}()
	}
	wg.Wait()

	stored, err := s.Find(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.LastVerification)
	assert.True(t, stored.LastVerification.Verified)
}

func TestMemoryStoreFindMissing(t *testing.T) {
	s := NewMemory()

	_, err := s.Find(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, testRecord("ada@example.com")))
	require.NoError(t, s.Delete(ctx, "ada@example.com"))

	_, err := s.Find(ctx, "ada@example.com")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))

	err = s.Delete(ctx, "ada@example.com")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}
