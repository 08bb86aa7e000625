package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/cache"
	"github.com/Strob0t/brainnode/internal/port/renderer"
)

// RenderService renders compiled documents, caching output by
// id, format and fingerprint.
type RenderService struct {
	registry renderer.Registry
	cache    cache.Cache
	ttl      time.Duration
	metrics  *botel.Metrics
}

// NewRenderService creates a RenderService. c may be nil to disable caching.
func NewRenderService(registry renderer.Registry, c cache.Cache, ttl time.Duration) *RenderService {
	return &RenderService{registry: registry, cache: c, ttl: ttl}
}

// SetMetrics enables cache hit/miss counters.
func (s *RenderService) SetMetrics(m *botel.Metrics) { s.metrics = m }

// Renderer returns the renderer registered for format.
func (s *RenderService) Renderer(format string) (renderer.Renderer, error) {
	return s.registry.Get(format)
}

// Formats lists the registered format names.
func (s *RenderService) Formats() []string { return s.registry.Formats() }

// Render renders doc in the given format.
func (s *RenderService) Render(ctx context.Context, doc *compile.Document, format string) ([]byte, renderer.Renderer, error) {
	r, err := s.registry.Get(format)
	if err != nil {
		return nil, nil, err
	}

	ctx, span := botel.StartRenderSpan(ctx, doc.ID, r.Format())
	defer span.End()

	key := cache.RenderKey(doc.ID, r.Format(), doc.Fingerprint)
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, key); err != nil {
			slog.WarnContext(ctx, "render cache get", "key", key, "error", err)
		} else if ok {
			s.count(ctx, true, r.Format())
			return data, r, nil
		}
		s.count(ctx, false, r.Format())
	}

	data, err := r.Render(doc)
	if err != nil {
		err = fmt.Errorf("render %s as %s: %w", doc.ID, r.Format(), err)
		botel.Fail(span, err)
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			slog.WarnContext(ctx, "render cache set", "key", key, "error", err)
		}
	}
	return data, r, nil
}

func (s *RenderService) count(ctx context.Context, hit bool, format string) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("render.format", format))
	if hit {
		s.metrics.CacheHits.Add(ctx, 1, attrs)
		return
	}
	s.metrics.CacheMisses.Add(ctx, 1, attrs)
}
