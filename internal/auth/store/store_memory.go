package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
)

// MemoryStore keeps principal records in memory. Used for tests and
// single-instance development runs.
//
// Records cross the store boundary by value: writes store a detached copy and
// Find returns one, so callers mutating a found record cannot corrupt stored
// state or race other readers.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.PrincipalRecord
}

// NewMemory constructs an empty in-memory principal store.
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.PrincipalRecord)}
}

// detach copies a record so the store and its callers never alias the same
// struct. The credential document is shared; it is immutable once stored.
func detach(record *models.PrincipalRecord) *models.PrincipalRecord {
	if record == nil {
		return nil
	}
	copied := *record
	if record.LastVerification != nil {
		mark := *record.LastVerification
		copied.LastVerification = &mark
	}
	return &copied
}

func (s *MemoryStore) Create(_ context.Context, record *models.PrincipalRecord) error {
	key := models.NormalizeLoginKey(record.LoginKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; ok {
		return fmt.Errorf("principal already exists: %w", sentinel.ErrInvalidState)
	}
	s.records[key] = detach(record)
	return nil
}

func (s *MemoryStore) Save(_ context.Context, record *models.PrincipalRecord) error {
	key := models.NormalizeLoginKey(record.LoginKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = detach(record)
	return nil
}

func (s *MemoryStore) Find(_ context.Context, loginKey string) (*models.PrincipalRecord, error) {
	key := models.NormalizeLoginKey(loginKey)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[key]; ok {
		return detach(record), nil
	}
	return nil, fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
}

func (s *MemoryStore) Delete(_ context.Context, loginKey string) error {
	key := models.NormalizeLoginKey(loginKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
	}
	delete(s.records, key)
	return nil
}
