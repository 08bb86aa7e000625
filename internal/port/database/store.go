// Package database defines the document store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Store persists rendered documents.
type Store interface {
	// SaveDocument stores rec unless a record with the same ID, format and
	// fingerprint exists. It reports whether a new row was written.
	SaveDocument(ctx context.Context, rec *compile.Record) (bool, error)

	// ListDocuments returns the most recent records, newest first.
	ListDocuments(ctx context.Context, limit int) ([]compile.Record, error)

	// GetLatest returns the newest record for an ID and format.
	GetLatest(ctx context.Context, id, format string) (*compile.Record, error)
}
