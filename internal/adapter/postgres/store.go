package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Store implements database.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const documentColumns = `id, build_id, fingerprint, format, content, compiled_at, published_at`

// SaveDocument inserts rec unless (id, format, fingerprint) is already stored.
func (s *Store) SaveDocument(ctx context.Context, rec *compile.Record) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO compiled_documents (id, build_id, fingerprint, format, content, compiled_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id, format, fingerprint) DO NOTHING`,
		rec.ID, rec.BuildID, rec.Fingerprint, rec.Format, rec.Content, rec.CompiledAt, rec.PublishedAt)
	if err != nil {
		return false, fmt.Errorf("save document %s: %w", rec.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListDocuments returns the most recently published records, newest first.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]compile.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM compiled_documents
		 ORDER BY published_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (compile.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	if records == nil {
		records = []compile.Record{}
	}
	return records, nil
}

// GetLatest returns the newest record for id in format.
func (s *Store) GetLatest(ctx context.Context, id, format string) (*compile.Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM compiled_documents
		 WHERE id = $1 AND format = $2
		 ORDER BY published_at DESC LIMIT 1`, id, format)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s/%s: %w", id, format, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s/%s: %w", id, format, err)
	}
	return &r, nil
}

// scanRecord reads documentColumns from a pgx.Row or pgx.CollectableRow.
func scanRecord(row interface{ Scan(dest ...any) error }) (compile.Record, error) {
	var r compile.Record
	err := row.Scan(&r.ID, &r.BuildID, &r.Fingerprint, &r.Format, &r.Content, &r.CompiledAt, &r.PublishedAt)
	return r, err
}
