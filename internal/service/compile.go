package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/logger"
	"github.com/Strob0t/brainnode/internal/port/broadcast"
)

// CompileService turns definitions into compiled documents by expanding
// their bundle includes.
type CompileService struct {
	agents   *AgentService
	bundles  *BundleService
	parallel int
	events   broadcast.Broadcaster
	metrics  *botel.Metrics
	now      func() time.Time
}

// NewCompileService creates a CompileService. parallel bounds CompileIDs fan-out.
func NewCompileService(agents *AgentService, bundles *BundleService, parallel int) *CompileService {
	if parallel < 1 {
		parallel = 1
	}
	return &CompileService{
		agents:   agents,
		bundles:  bundles,
		parallel: parallel,
		now:      time.Now,
	}
}

// SetMetrics enables compile counters and the duration histogram.
func (s *CompileService) SetMetrics(m *botel.Metrics) { s.metrics = m }

// SetBroadcaster sets the sink for compiled and failed events.
func (s *CompileService) SetBroadcaster(b broadcast.Broadcaster) { s.events = b }

// Compile compiles a single definition under a fresh build ID.
func (s *CompileService) Compile(ctx context.Context, id string) (*compile.Document, error) {
	return s.compile(ctx, id, s.bundles.Snapshot(), uuid.NewString())
}

// CompileAll compiles every registered definition. Results follow
// AgentService.IDs order.
func (s *CompileService) CompileAll(ctx context.Context) ([]*compile.Document, error) {
	return s.CompileIDs(ctx, s.agents.IDs())
}

// CompileIDs compiles the given definitions concurrently under one build ID
// and one bundle snapshot. The first failure cancels the rest.
func (s *CompileService) CompileIDs(ctx context.Context, ids []string) ([]*compile.Document, error) {
	buildID := uuid.NewString()
	ctx = logger.WithBuildID(ctx, buildID)
	lookup := s.bundles.Snapshot()

	docs := make([]*compile.Document, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallel)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := s.compile(gctx, id, lookup, buildID)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "compiled definitions", "count", len(docs))
	return docs, nil
}

// Select returns the IDs matching any of the glob patterns, in
// AgentService.IDs order. No patterns selects everything. A pattern that
// matches nothing is an error.
func (s *CompileService) Select(patterns ...string) ([]string, error) {
	all := s.agents.IDs()
	if len(patterns) == 0 {
		return all, nil
	}

	selected := make(map[string]bool)
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: invalid pattern %q", domain.ErrValidation, p)
		}
		matched := false
		for _, id := range all {
			if ok, _ := doublestar.Match(p, id); ok {
				selected[id] = true
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("pattern %q: %w", p, domain.ErrNotFound)
		}
	}

	ids := make([]string, 0, len(selected))
	for _, id := range all {
		if selected[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *CompileService) compile(ctx context.Context, id string, lookup bundle.Lookup, buildID string) (*compile.Document, error) {
	ctx, span := botel.StartCompileSpan(ctx, id, buildID)
	defer span.End()

	start := s.now()
	doc, err := s.build(id, lookup, buildID)
	s.record(ctx, id, start, err)
	if err != nil {
		botel.Fail(span, err)
		slog.ErrorContext(ctx, "compile failed", "id", id, "error", err)
		s.broadcast(ctx, compile.Event{Action: compile.ActionFailed, ID: id, BuildID: buildID, Error: err.Error(), At: s.now()})
		return nil, err
	}

	slog.DebugContext(ctx, "compiled", "id", id, "sections", len(doc.Definition.Sections), "fingerprint", doc.Fingerprint)
	s.broadcast(ctx, compile.Event{Action: compile.ActionCompiled, ID: id, BuildID: buildID, Fingerprint: doc.Fingerprint, At: doc.CompiledAt})
	return doc, nil
}

// CompileDefinition compiles def against the current bundles without
// registering it, so a candidate can be checked before it is kept.
func (s *CompileService) CompileDefinition(ctx context.Context, def *agent.Definition) (*compile.Document, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validate agent: %w", err)
	}
	doc, err := s.compileDefinition(def, s.bundles.Snapshot(), uuid.NewString())
	if err != nil {
		slog.DebugContext(ctx, "candidate rejected", "id", def.ID, "error", err)
		return nil, err
	}
	return doc, nil
}

func (s *CompileService) build(id string, lookup bundle.Lookup, buildID string) (*compile.Document, error) {
	def, err := s.agents.Get(id)
	if err != nil {
		return nil, err
	}
	return s.compileDefinition(def, lookup, buildID)
}

func (s *CompileService) compileDefinition(def *agent.Definition, lookup bundle.Lookup, buildID string) (*compile.Document, error) {
	expanded, err := bundle.Expand(lookup, def.ID, def.Includes)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", def.ID, err)
	}

	merged, err := compile.Merge(def, expanded)
	if err != nil {
		return nil, err
	}

	fp, err := compile.Fingerprint(merged)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(expanded))
	for i, b := range expanded {
		names[i] = b.Name
	}

	return &compile.Document{
		ID:          def.ID,
		Archetype:   def.Archetype,
		BuildID:     buildID,
		Fingerprint: fp,
		CompiledAt:  s.now().UTC(),
		Includes:    names,
		Definition:  merged,
	}, nil
}

func (s *CompileService) record(ctx context.Context, id string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("agent.id", id))
	s.metrics.Compiles.Add(ctx, 1, attrs)
	s.metrics.CompileDuration.Record(ctx, s.now().Sub(start).Seconds(), attrs)
	if err != nil {
		s.metrics.CompileFailures.Add(ctx, 1, attrs)
	}
}

func (s *CompileService) broadcast(ctx context.Context, ev compile.Event) {
	if s.events != nil {
		s.events.BroadcastEvent(ctx, ev)
	}
}
