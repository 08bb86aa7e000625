package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Strob0t/brainnode/internal/config"
)

// ReloadNotifier is told when the bundle set has been reloaded.
type ReloadNotifier interface {
	PublishReload(ctx context.Context, dir string, bundles int)
}

// ReloadService reacts to source changes: it reloads config and bundles,
// then rebuilds every document.
type ReloadService struct {
	bundles  *BundleService
	builder  *BuildService
	format   string
	config   *config.Holder
	notifier ReloadNotifier
}

// NewReloadService creates a ReloadService that rebuilds in the given format.
func NewReloadService(bundles *BundleService, builder *BuildService, format string) *ReloadService {
	return &ReloadService{bundles: bundles, builder: builder, format: format}
}

// SetConfigHolder enables config reloads when the config file changes.
func (s *ReloadService) SetConfigHolder(h *config.Holder) { s.config = h }

// SetNotifier sets the reload notifier (typically NATS).
func (s *ReloadService) SetNotifier(n ReloadNotifier) { s.notifier = n }

// Rebuild handles one batch of changed paths. A failed config reload keeps
// the previous config; a failed bundle reload aborts the rebuild and leaves
// the written output untouched.
func (s *ReloadService) Rebuild(ctx context.Context, changed []string) (*BuildResult, error) {
	format := s.format
	if s.config != nil {
		if s.touches(changed, s.config.Path()) {
			if err := s.config.Reload(); err != nil {
				slog.WarnContext(ctx, "config reload failed, keeping previous", "error", err)
			} else {
				slog.InfoContext(ctx, "config reloaded", "path", s.config.Path())
			}
		}
		if f := s.config.Get().Node.Format; f != "" {
			format = f
		}
	}

	if err := s.bundles.Reload(); err != nil {
		return nil, fmt.Errorf("reload bundles: %w", err)
	}
	if s.notifier != nil {
		s.notifier.PublishReload(ctx, s.bundles.Dir(), len(s.bundles.List()))
	}

	res, err := s.builder.Build(ctx, format)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "rebuild complete",
		"build_id", res.BuildID,
		"documents", len(res.Documents),
		"changed", res.Changed(),
		"trigger", changed,
	)
	return res, nil
}

func (s *ReloadService) touches(changed []string, path string) bool {
	if path == "" {
		return false
	}
	want := filepath.Clean(path)
	for _, p := range changed {
		if filepath.Clean(p) == want {
			return true
		}
	}
	return false
}
