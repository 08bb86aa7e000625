package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
)

// BundleService manages bundles: built-in presets plus YAML files loaded
// from a directory. It implements bundle.Lookup.
type BundleService struct {
	mu      sync.RWMutex
	dir     string
	bundles map[string]*bundle.Bundle
}

// NewBundleService creates a BundleService with built-in presets and the
// YAML bundles found in dir. An empty dir loads built-ins only.
func NewBundleService(dir string) (*BundleService, error) {
	s := &BundleService{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the custom bundle directory.
func (s *BundleService) Dir() string { return s.dir }

// Reload re-reads the bundle directory. On error the previous set stays active.
func (s *BundleService) Reload() error {
	next := make(map[string]*bundle.Bundle)
	for _, b := range bundle.BuiltinBundles() {
		next[b.Name] = &b
	}

	if s.dir != "" {
		custom, err := bundle.LoadFromDirectory(s.dir)
		if err != nil {
			return fmt.Errorf("load bundles: %w", err)
		}
		for i := range custom {
			b := &custom[i]
			if existing, ok := next[b.Name]; ok && existing.Builtin {
				return fmt.Errorf("%w: bundle %q shadows a built-in bundle", domain.ErrConflict, b.Name)
			}
			next[b.Name] = b
		}
		slog.Debug("bundles loaded", "dir", s.dir, "custom", len(custom))
	}

	s.mu.Lock()
	s.bundles = next
	s.mu.Unlock()
	return nil
}

// Bundle implements bundle.Lookup.
func (s *BundleService) Bundle(name string) (*bundle.Bundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bundles[name]
	return b, ok
}

// Get returns a bundle by name.
func (s *BundleService) Get(name string) (*bundle.Bundle, error) {
	b, ok := s.Bundle(name)
	if !ok {
		return nil, fmt.Errorf("bundle %q: %w", name, domain.ErrNotFound)
	}
	return b, nil
}

// List returns all bundles ordered by group (universal, agent, variation,
// custom) and then by name.
func (s *BundleService) List() []*bundle.Bundle {
	s.mu.RLock()
	result := make([]*bundle.Bundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		result = append(result, b)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		gi, gj := groupRank(result[i].Group), groupRank(result[j].Group)
		if gi != gj {
			return gi < gj
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// Snapshot returns a consistent copy of the current lookup table, so one
// compilation never sees a half-applied reload.
func (s *BundleService) Snapshot() bundle.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(bundle.Map, len(s.bundles))
	for k, v := range s.bundles {
		m[k] = v
	}
	return m
}

func groupRank(g bundle.Group) int {
	switch g {
	case bundle.GroupUniversal:
		return 0
	case bundle.GroupAgent:
		return 1
	case bundle.GroupVariation:
		return 2
	default:
		return 3
	}
}
