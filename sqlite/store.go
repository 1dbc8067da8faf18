package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kreuzwerker/webmeta"
)

// Ensure Store implements webmeta.PayloadStore at compile time.
var _ webmeta.PayloadStore = (*Store)(nil)

// Store implements webmeta.PayloadStore on the payloads table. Saves
// share one transaction that is committed or rolled back as a whole.
// Store is not safe for concurrent use.
type Store struct {
	db  *DB
	tx  *sql.Tx
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Save upserts payload for url. A payload saved earlier for the same
// URL is replaced.
func (s *Store) Save(ctx context.Context, url string, payload *webmeta.Record) error {
	b, err := payload.MarshalJSON()
	if err != nil {
		return err
	}

	if s.tx == nil {
		if s.tx, err = s.db.BeginTx(ctx); err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
	}

	_, err = s.tx.ExecContext(ctx, `
		INSERT INTO payloads (url, payload, extracted_at) VALUES (?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			payload = excluded.payload,
			extracted_at = excluded.extracted_at
	`, url, string(b), s.now().UTC().Format(time.RFC3339))
	return err
}

// Commit makes the saved payloads visible.
func (s *Store) Commit() error {
	if s.tx == nil {
		return nil
	}
	defer func() { s.tx = nil }()
	return s.tx.Commit()
}

// Abort discards payloads saved since the last Commit.
func (s *Store) Abort() error {
	if s.tx == nil {
		return nil
	}
	defer func() { s.tx = nil }()
	return s.tx.Rollback()
}

// FindPayload returns the committed payload for url.
func (s *Store) FindPayload(ctx context.Context, url string) (*webmeta.Record, time.Time, error) {
	var raw, extractedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, extracted_at FROM payloads WHERE url = ?`, url,
	).Scan(&raw, &extractedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, webmeta.Errorf(webmeta.ENOTFOUND, "no payload for %s", url)
	} else if err != nil {
		return nil, time.Time{}, err
	}

	at, err := time.Parse(time.RFC3339, extractedAt)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse extracted_at: %w", err)
	}

	v, err := webmeta.ParseJSON(raw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	rec, ok := v.(*webmeta.Record)
	if !ok {
		return nil, time.Time{}, webmeta.Errorf(webmeta.EINTERNAL, "stored payload for %s is not an object", url)
	}
	return rec, at, nil
}
