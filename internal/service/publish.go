package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/database"
)

// PublishResult summarizes a publish run.
type PublishResult struct {
	BuildID string
	Saved   int
	Skipped int
}

// PublishService stores rendered documents in the document store.
type PublishService struct {
	compiler *CompileService
	render   *RenderService
	store    database.Store
	now      func() time.Time
}

// NewPublishService creates a PublishService.
func NewPublishService(compiler *CompileService, render *RenderService, store database.Store) *PublishService {
	return &PublishService{compiler: compiler, render: render, store: store, now: time.Now}
}

// Publish compiles every definition, renders it in format and saves it.
// Records whose fingerprint is already stored are skipped.
func (s *PublishService) Publish(ctx context.Context, format string) (*PublishResult, error) {
	docs, err := s.compiler.CompileAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &PublishResult{}
	if len(docs) > 0 {
		res.BuildID = docs[0].BuildID
	}

	ctx, span := botel.StartPublishSpan(ctx, res.BuildID, len(docs))
	defer span.End()

	for _, doc := range docs {
		data, r, err := s.render.Render(ctx, doc, format)
		if err != nil {
			botel.Fail(span, err)
			return res, err
		}
		saved, err := s.store.SaveDocument(ctx, &compile.Record{
			ID:          doc.ID,
			BuildID:     doc.BuildID,
			Fingerprint: doc.Fingerprint,
			Format:      r.Format(),
			Content:     data,
			CompiledAt:  doc.CompiledAt,
			PublishedAt: s.now().UTC(),
		})
		if err != nil {
			err = fmt.Errorf("publish %s: %w", doc.ID, err)
			botel.Fail(span, err)
			return res, err
		}
		if saved {
			res.Saved++
		} else {
			res.Skipped++
		}
	}

	slog.InfoContext(ctx, "published documents", "build_id", res.BuildID, "saved", res.Saved, "skipped", res.Skipped)
	return res, nil
}

// History limits.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// History returns the most recently published records. limit defaults to
// DefaultHistoryLimit and is capped at MaxHistoryLimit.
func (s *PublishService) History(ctx context.Context, limit int) ([]compile.Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.store.ListDocuments(ctx, limit)
}

// Latest returns the newest published record for id in format.
func (s *PublishService) Latest(ctx context.Context, id, format string) (*compile.Record, error) {
	return s.store.GetLatest(ctx, id, format)
}
