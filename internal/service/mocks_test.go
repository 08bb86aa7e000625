package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/node"
	"github.com/Strob0t/brainnode/internal/port/broadcast"
	"github.com/Strob0t/brainnode/internal/port/cache"
	"github.com/Strob0t/brainnode/internal/port/database"
	"github.com/Strob0t/brainnode/internal/port/renderer"
)

// Ensure mock types implement their interfaces at compile time.
var (
	_ broadcast.Broadcaster = (*mockBroadcaster)(nil)
	_ cache.Cache           = (*memCache)(nil)
	_ database.Store        = (*memStore)(nil)
	_ renderer.Registry     = (*fakeRegistry)(nil)
)

type mockBroadcaster struct {
	mu     sync.Mutex
	events []compile.Event
}

func (m *mockBroadcaster) BroadcastEvent(_ context.Context, ev compile.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

func (m *mockBroadcaster) byAction(action string) []compile.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []compile.Event
	for _, ev := range m.events {
		if ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// textRenderer renders "<id> <fingerprint>\n" and counts calls.
type textRenderer struct {
	mu    sync.Mutex
	calls int
}

func (r *textRenderer) Format() string      { return "text" }
func (r *textRenderer) Extension() string   { return "md" }
func (r *textRenderer) ContentType() string { return "text/plain" }

func (r *textRenderer) Render(doc *compile.Document) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return []byte(doc.ID + " " + doc.Fingerprint + "\n"), nil
}

type fakeRegistry struct {
	r *textRenderer
}

func (f fakeRegistry) Get(format string) (renderer.Renderer, error) {
	if format != "text" {
		return nil, fmt.Errorf("format %q: %w", format, domain.ErrNotFound)
	}
	return f.r, nil
}

func (f fakeRegistry) Formats() []string { return []string{"text"} }

type memStore struct {
	mu        sync.Mutex
	records   []compile.Record
	err       error
	lastLimit int
}

func (s *memStore) SaveDocument(_ context.Context, rec *compile.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	for _, r := range s.records {
		if r.ID == rec.ID && r.Format == rec.Format && r.Fingerprint == rec.Fingerprint {
			return false, nil
		}
	}
	s.records = append(s.records, *rec)
	return true, nil
}

func (s *memStore) ListDocuments(_ context.Context, limit int) ([]compile.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLimit = limit
	out := append([]compile.Record(nil), s.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) GetLatest(_ context.Context, id, format string) (*compile.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ID == id && s.records[i].Format == format {
			r := s.records[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("document %s/%s: %w", id, format, domain.ErrNotFound)
}

// newTestServices wires agent, bundle and compile services over the
// shipped node definitions.
func newTestServices(t *testing.T, bundlesDir string) (*AgentService, *BundleService, *CompileService) {
	t.Helper()
	agents, err := NewAgentService(node.Blueprints())
	if err != nil {
		t.Fatalf("NewAgentService: %v", err)
	}
	bundles, err := NewBundleService(bundlesDir)
	if err != nil {
		t.Fatalf("NewBundleService: %v", err)
	}
	return agents, bundles, NewCompileService(agents, bundles, 2)
}
