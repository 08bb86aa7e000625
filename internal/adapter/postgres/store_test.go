package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/brainnode/internal/adapter/postgres"
	"github.com/Strob0t/brainnode/internal/config"
	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()

	// Run goose migrations first (uses embedded SQL files).
	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	cfg := config.Defaults().Postgres
	cfg.DSN = dsn
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(pool.Close)

	cleanDocuments(t, pool)
	return postgres.NewStore(pool)
}

func cleanDocuments(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `DELETE FROM compiled_documents WHERE id LIKE 'pgtest-%'`); err != nil {
		t.Fatalf("clean: %v", err)
	}
}

func record(id, fingerprint string, published time.Time) *compile.Record {
	return &compile.Record{
		ID:          id,
		BuildID:     uuid.NewString(),
		Fingerprint: fingerprint,
		Format:      "markdown",
		Content:     []byte("# " + id),
		CompiledAt:  published.Add(-time.Second),
		PublishedAt: published,
	}
}

func TestStore_SaveDocumentDedupes(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	saved, err := s.SaveDocument(ctx, record("pgtest-a", "fp1", now))
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("expected first save to insert")
	}

	saved, err = s.SaveDocument(ctx, record("pgtest-a", "fp1", now.Add(time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if saved {
		t.Fatal("expected same fingerprint to be skipped")
	}

	saved, err = s.SaveDocument(ctx, record("pgtest-a", "fp2", now.Add(time.Minute)))
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatal("expected new fingerprint to insert")
	}
}

func TestStore_GetLatest(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i, fp := range []string{"old", "new"} {
		if _, err := s.SaveDocument(ctx, record("pgtest-b", fp, now.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetLatest(ctx, "pgtest-b", "markdown")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fingerprint != "new" {
		t.Fatalf("expected newest fingerprint, got %s", got.Fingerprint)
	}
	if string(got.Content) != "# pgtest-b" {
		t.Fatalf("unexpected content %q", got.Content)
	}
}

func TestStore_GetLatestNotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.GetLatest(context.Background(), "pgtest-missing", "markdown")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListDocuments(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i, id := range []string{"pgtest-c1", "pgtest-c2", "pgtest-c3"} {
		if _, err := s.SaveDocument(ctx, record(id, "fp", now.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := s.ListDocuments(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(docs))
	}
	if docs[0].ID != "pgtest-c3" {
		t.Fatalf("expected newest first, got %s", docs[0].ID)
	}
}

func TestMigrationVersion(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}
	ctx := context.Background()
	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatal(err)
	}
	v, err := postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	if v < 1 {
		t.Fatalf("expected version >= 1, got %d", v)
	}
}
