package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/logger"
	"github.com/Strob0t/brainnode/internal/port/broadcast"
)

// BuildResult summarizes one compile-and-write run.
type BuildResult struct {
	BuildID   string
	Documents []*compile.Document
	Files     []WriteResult
}

// Changed counts the files that were rewritten.
func (r *BuildResult) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// BuildService compiles definitions and writes them to disk. It backs
// `brain compile` and the watch loop.
type BuildService struct {
	compiler *CompileService
	output   *OutputService
	events   broadcast.Broadcaster
	now      func() time.Time
}

// NewBuildService creates a BuildService. events may be nil.
func NewBuildService(compiler *CompileService, output *OutputService, events broadcast.Broadcaster) *BuildService {
	return &BuildService{compiler: compiler, output: output, events: events, now: time.Now}
}

// Build compiles the definitions selected by patterns (all when empty) and
// writes them in format.
func (s *BuildService) Build(ctx context.Context, format string, patterns ...string) (*BuildResult, error) {
	ids, err := s.compiler.Select(patterns...)
	if err != nil {
		return nil, err
	}

	docs, err := s.compiler.CompileIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := &BuildResult{Documents: docs}
	if len(docs) > 0 {
		res.BuildID = docs[0].BuildID
		ctx = logger.WithBuildID(ctx, res.BuildID)
	}

	files, err := s.output.Write(ctx, docs, format)
	res.Files = files
	for i, f := range files {
		s.broadcast(ctx, compile.Event{
			Action:      compile.ActionWritten,
			ID:          f.ID,
			BuildID:     res.BuildID,
			Fingerprint: docs[i].Fingerprint,
			Format:      format,
			Path:        f.Path,
			Changed:     f.Changed,
			At:          s.now().UTC(),
		})
	}
	if err != nil {
		return res, err
	}

	slog.InfoContext(ctx, "build finished", "documents", len(docs), "changed", res.Changed(), "format", format)
	return res, nil
}

func (s *BuildService) broadcast(ctx context.Context, ev compile.Event) {
	if s.events != nil {
		s.events.BroadcastEvent(ctx, ev)
	}
}
