package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	brainhttp "github.com/Strob0t/brainnode/internal/adapter/http"
	"github.com/Strob0t/brainnode/internal/adapter/render"
	"github.com/Strob0t/brainnode/internal/config"
	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/node"
	"github.com/Strob0t/brainnode/internal/service"
)

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	h, out := newTestHandlers(t)
	r := chi.NewRouter()
	brainhttp.MountRoutes(r, h)
	return r, out
}

func newTestHandlers(t *testing.T) (*brainhttp.Handlers, string) {
	t.Helper()

	agents, err := service.NewAgentService(node.Blueprints())
	if err != nil {
		t.Fatalf("NewAgentService: %v", err)
	}
	bundles, err := service.NewBundleService(t.TempDir())
	if err != nil {
		t.Fatalf("NewBundleService: %v", err)
	}
	compiler := service.NewCompileService(agents, bundles, 2)
	renderSvc := service.NewRenderService(render.Default("http://localhost:8080", "test"), nil, time.Minute)

	out := t.TempDir()
	nodeCfg := config.Defaults().Node
	nodeCfg.OutputDir = out
	builder := service.NewBuildService(compiler, service.NewOutputService(nodeCfg, renderSvc), nil)

	h := &brainhttp.Handlers{
		Agents:        agents,
		Bundles:       bundles,
		Compiler:      compiler,
		Render:        renderSvc,
		Builder:       builder,
		DefaultFormat: "markdown",
		Version:       "test",
	}
	return h, out
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListAgents(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/agents", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got []brainhttp.AgentSummary
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(node.Blueprints()) {
		t.Fatalf("expected %d agents, got %d", len(node.Blueprints()), len(got))
	}
	var found bool
	for _, a := range got {
		if a.ID == "database-master" {
			found = true
			if !a.Builtin {
				t.Error("database-master should be builtin")
			}
			if a.Description == "" {
				t.Error("expected description")
			}
			if len(a.Includes) == 0 {
				t.Error("expected includes")
			}
		}
	}
	if !found {
		t.Fatal("database-master missing from list")
	}
}

func TestGetAgent(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"existing", "/api/v1/agents/database-master", http.StatusOK},
		{"brain", "/api/v1/agents/brain-core", http.StatusOK},
		{"missing", "/api/v1/agents/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, nil, nil)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var doc compile.Document
			if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
				t.Fatal(err)
			}
			if doc.Fingerprint == "" || doc.BuildID == "" {
				t.Errorf("expected fingerprint and build id, got %+v", doc)
			}
		})
	}
}

func TestRenderAgent(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/agents/database-master/render", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("expected markdown content type, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "---\n") {
		t.Errorf("expected front matter, got %q", w.Body.String()[:20])
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	w = do(t, r, http.MethodGet, "/api/v1/agents/database-master/render", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/api/v1/agents/database-master/render?format=json", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("json: expected 200, got %d", w.Code)
	}
	if w.Header().Get("ETag") == etag {
		t.Error("ETag must differ between formats")
	}
	if !json.Valid(w.Body.Bytes()) {
		t.Error("json render is not valid JSON")
	}

	w = do(t, r, http.MethodGet, "/api/v1/agents/database-master/render?format=docx", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown format: expected 404, got %d", w.Code)
	}
}

func TestCreateAgent(t *testing.T) {
	r, _ := newTestRouter(t)

	body := map[string]any{
		"id":       "docs-writer",
		"purpose":  "Writes docs.",
		"includes": []string{"base-constraints"},
		"sections": []map[string]any{
			{"key": "tone", "kind": "guideline", "text": "Plain words."},
		},
	}
	w := do(t, r, http.MethodPost, "/api/v1/agents", body, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/agents/docs-writer" {
		t.Errorf("Location = %q", loc)
	}
	var doc compile.Document
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != "docs-writer" || len(doc.Includes) != 1 {
		t.Errorf("unexpected document %+v", doc)
	}

	w = do(t, r, http.MethodGet, "/api/v1/agents/docs-writer", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("registered agent: expected 200, got %d", w.Code)
	}

	tests := []struct {
		name string
		body any
		code int
		want string
	}{
		{"builtin", map[string]any{"id": "database-master"}, http.StatusConflict, "built-in"},
		{"bad id", map[string]any{"id": "Bad ID"}, http.StatusBadRequest, "invalid id"},
		{"bad kind", map[string]any{"id": "x", "sections": []map[string]any{{"key": "a", "kind": "note"}}}, http.StatusBadRequest, "invalid kind"},
		{"unknown field", map[string]any{"id": "y", "persona": "x"}, http.StatusBadRequest, ""},
		{"unresolved include", map[string]any{"id": "ghost-writer", "includes": []string{"no-such-bundle"}}, http.StatusUnprocessableEntity, "no-such-bundle"},
		{"key clashes with bundle", map[string]any{
			"id":       "clash-writer",
			"includes": []string{"base-constraints"},
			"sections": []map[string]any{{"key": "constraint-scope", "kind": "guideline", "text": "Mine."}},
		}, http.StatusBadRequest, "constraint-scope"},
		{"second brain", map[string]any{"id": "second-brain", "archetype": "brain"}, http.StatusConflict, "brain-core"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/agents", tt.body, nil)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("body %s should mention %q", w.Body.String(), tt.want)
			}
		})
	}

	// Rejected definitions are never registered, so a full build still succeeds.
	for _, id := range []string{"ghost-writer", "clash-writer", "second-brain"} {
		if w := do(t, r, http.MethodGet, "/api/v1/agents/"+id, nil, nil); w.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", id, w.Code)
		}
	}
	w = do(t, r, http.MethodPost, "/api/v1/build", brainhttp.BuildRequest{}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("build after rejected creates: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBundles(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/bundles", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []brainhttp.BundleSummary
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatal("expected preset bundles")
	}

	w = do(t, r, http.MethodGet, "/api/v1/bundles/base-constraints", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/v1/bundles/missing", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestFormats(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/v1/formats", nil, nil)
	var got []string
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "a2a,json,markdown,toml,yaml" {
		t.Errorf("unexpected formats %v", got)
	}
}

func TestBuild(t *testing.T) {
	r, out := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/build", brainhttp.BuildRequest{Only: []string{"database-*"}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res brainhttp.BuildResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Documents != 1 || res.Changed != 1 {
		t.Errorf("expected 1 document changed, got %+v", res)
	}
	if _, err := os.Stat(filepath.Join(out, "agents", "database-master.md")); err != nil {
		t.Errorf("expected written file: %v", err)
	}

	w = do(t, r, http.MethodPost, "/api/v1/build", brainhttp.BuildRequest{Only: []string{"nothing-*"}}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("no match: expected 404, got %d", w.Code)
	}
}

func TestDocumentsWithoutStore(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/documents", "/api/v1/documents/database-master"} {
		if w := do(t, r, http.MethodGet, path, nil, nil); w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, w.Code)
		}
	}
}

// memStore is an in-memory document store.
type memStore struct {
	mu      sync.Mutex
	records []compile.Record
}

func (s *memStore) SaveDocument(_ context.Context, rec *compile.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return true, nil
}

func (s *memStore) ListDocuments(_ context.Context, limit int) ([]compile.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.records)
	slices.Reverse(out)
	return out[:min(limit, len(out))], nil
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

func TestDocuments(t *testing.T) {
	h, _ := newTestHandlers(t)
	h.Publish = service.NewPublishService(h.Compiler, h.Render, &memStore{})
	r := chi.NewRouter()
	brainhttp.MountRoutes(r, h)

	if _, err := h.Publish.Publish(context.Background(), "markdown"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		path   string
		code   int
		format string
	}{
		{"default format", "/api/v1/documents/database-master", http.StatusOK, "markdown"},
		{"explicit format", "/api/v1/documents/database-master?format=markdown", http.StatusOK, "markdown"},
		{"unpublished format", "/api/v1/documents/database-master?format=json", http.StatusNotFound, ""},
		{"unknown agent", "/api/v1/documents/nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, tt.path, nil, nil)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}
			var rec compile.Record
			if err := json.NewDecoder(w.Body).Decode(&rec); err != nil {
				t.Fatal(err)
			}
			if rec.ID != "database-master" || rec.Format != tt.format || len(rec.Content) == 0 {
				t.Errorf("unexpected record %+v", rec)
			}
		})
	}

	w := do(t, r, http.MethodGet, "/api/v1/documents?limit=2", nil, nil)
	var list []compile.Record
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || len(list) != 2 {
		t.Fatalf("expected 2 records, got %d (%d)", len(list), w.Code)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]brainhttp.Check
		code   int
		status string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"healthy", map[string]brainhttp.Check{"nats": func(context.Context) error { return nil }}, http.StatusOK, "ok"},
		{"degraded", map[string]brainhttp.Check{"postgres": func(context.Context) error { return errors.New("down") }}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			brainhttp.Health("v1", tt.checks)(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var body struct {
				Status  string `json:"status"`
				Version string `json:"version"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.status || body.Version != "v1" {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}
