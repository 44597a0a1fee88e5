package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/0xronaldo/backend-zkp-lastproyect/internal/auth/models"
	"github.com/0xronaldo/backend-zkp-lastproyect/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// PostgresStore persists principal records in PostgreSQL. The credential and
// verification documents are stored as JSONB; the relational columns cover
// only what lookups and constraints need.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed principal store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, record *models.PrincipalRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO principals (login_key, auth_method, identity, record, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		models.NormalizeLoginKey(record.LoginKey), record.AuthMethod, record.Identity,
		doc, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("principal already exists: %w", sentinel.ErrInvalidState)
		}
		return fmt.Errorf("create principal: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record *models.PrincipalRecord) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO principals (login_key, auth_method, identity, record, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (login_key) DO UPDATE
		 SET auth_method = EXCLUDED.auth_method,
		     identity    = EXCLUDED.identity,
		     record      = EXCLUDED.record,
		     updated_at  = EXCLUDED.updated_at`,
		models.NormalizeLoginKey(record.LoginKey), record.AuthMethod, record.Identity,
		doc, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save principal: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, loginKey string) (*models.PrincipalRecord, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM principals WHERE login_key = $1`,
		models.NormalizeLoginKey(loginKey),
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	var record models.PrincipalRecord
	if err := json.Unmarshal(doc, &record); err != nil {
		return nil, fmt.Errorf("unmarshal principal: %w", err)
	}
	return &record, nil
}

func (s *PostgresStore) Delete(ctx context.Context, loginKey string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM principals WHERE login_key = $1`,
		models.NormalizeLoginKey(loginKey),
	)
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete principal rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("principal not found: %w", sentinel.ErrNotFound)
	}
	return nil
}
