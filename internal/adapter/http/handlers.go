package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/service"
)

// Handlers holds the services the HTTP API reads from. Builder and Publish
// are optional; their endpoints answer 503 when unset.
type Handlers struct {
	Agents        *service.AgentService
	Bundles       *service.BundleService
	Compiler      *service.CompileService
	Render        *service.RenderService
	Builder       *service.BuildService
	Publish       *service.PublishService
	DefaultFormat string
	Version       string
	// WriteLimit wraps the POST endpoints, typically a per-IP rate limiter.
	WriteLimit func(http.Handler) http.Handler
}

// AgentSummary is the list view of a definition.
type AgentSummary struct {
	ID          string          `json:"id"`
	Archetype   agent.Archetype `json:"archetype"`
	Description string          `json:"description,omitempty"`
	Model       string          `json:"model,omitempty"`
	Color       string          `json:"color,omitempty"`
	Includes    []string        `json:"includes"`
	Sections    int             `json:"sections"`
	Builtin     bool            `json:"builtin"`
}

// BundleSummary is the list view of a bundle.
type BundleSummary struct {
	Name        string       `json:"name"`
	Group       bundle.Group `json:"group"`
	Description string       `json:"description,omitempty"`
	Includes    []string     `json:"includes"`
	Sections    int          `json:"sections"`
	Builtin     bool         `json:"builtin"`
}

// BuildRequest triggers a compile-and-write run.
type BuildRequest struct {
	Format string   `json:"format"`
	Only   []string `json:"only"`
}

// BuildResponse reports a finished build.
type BuildResponse struct {
	BuildID   string                `json:"build_id"`
	Documents int                   `json:"documents"`
	Changed   int                   `json:"changed"`
	Files     []service.WriteResult `json:"files"`
}

// ListAgents handles GET /api/v1/agents.
func (h *Handlers) ListAgents(w http.ResponseWriter, r *http.Request) {
	handleList(func(context.Context) ([]AgentSummary, error) {
		defs := h.Agents.List()
		out := make([]AgentSummary, len(defs))
		for i, d := range defs {
			desc, _ := d.MetaValue("description")
			model, _ := d.MetaValue("model")
			color, _ := d.MetaValue("color")
			out[i] = AgentSummary{
				ID:          d.ID,
				Archetype:   d.Archetype,
				Description: desc,
				Model:       model,
				Color:       color,
				Includes:    orEmpty(d.Includes),
				Sections:    len(d.Sections),
				Builtin:     h.Agents.IsBuiltin(d.ID),
			}
		}
		return out, nil
	})(w, r)
}

// GetAgent handles GET /api/v1/agents/{id}. It returns the compiled document.
func (h *Handlers) GetAgent(w http.ResponseWriter, r *http.Request) {
	handleGet("id", "agent", h.Compiler.Compile)(w, r)
}

// CreateAgent handles POST /api/v1/agents. The definition is compiled
// against the current bundles first and only registered when that succeeds.
func (h *Handlers) CreateAgent(w http.ResponseWriter, r *http.Request) {
	location := func(doc *compile.Document) string { return "/api/v1/agents/" + doc.ID }
	handleCreate(location, func(ctx context.Context, def *agent.Definition) (*compile.Document, error) {
		if def.Archetype == "" {
			def.Archetype = agent.ArchetypeAgent
		}
		if def.Sections == nil {
			def.Sections = []agent.Section{}
		}
		for i := range def.Sections {
			if def.Sections[i].Source == "" {
				def.Sections[i].Source = def.ID
			}
		}
		doc, err := h.Compiler.CompileDefinition(ctx, def)
		if err != nil {
			return nil, err
		}
		if err := h.Agents.Register(def); err != nil {
			return nil, err
		}
		return doc, nil
	})(w, r)
}

// RenderAgent handles GET /api/v1/agents/{id}/render?format=markdown.
func (h *Handlers) RenderAgent(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.DefaultFormat
	}

	doc, err := h.Compiler.Compile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "agent not found")
		return
	}

	data, rr, err := h.Render.Render(r.Context(), doc, format)
	if err != nil {
		writeDomainError(w, err, "unknown format")
		return
	}

	etag := strconv.Quote(doc.Fingerprint + "-" + rr.Format())
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", rr.ContentType())
	w.Header().Set("X-Build-ID", doc.BuildID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListBundles handles GET /api/v1/bundles.
func (h *Handlers) ListBundles(w http.ResponseWriter, r *http.Request) {
	handleList(func(context.Context) ([]BundleSummary, error) {
		bundles := h.Bundles.List()
		out := make([]BundleSummary, len(bundles))
		for i, b := range bundles {
			out[i] = BundleSummary{
				Name:        b.Name,
				Group:       b.Group,
				Description: b.Description,
				Includes:    orEmpty(b.Includes),
				Sections:    len(b.Sections),
				Builtin:     b.Builtin,
			}
		}
		return out, nil
	})(w, r)
}

// GetBundle handles GET /api/v1/bundles/{name}.
func (h *Handlers) GetBundle(w http.ResponseWriter, r *http.Request) {
	handleGet("name", "bundle", func(_ context.Context, name string) (*bundle.Bundle, error) {
		return h.Bundles.Get(name)
	})(w, r)
}

// ListFormats handles GET /api/v1/formats.
func (h *Handlers) ListFormats(w http.ResponseWriter, r *http.Request) {
	handleList(func(context.Context) ([]string, error) {
		return h.Render.Formats(), nil
	})(w, r)
}

// Build handles POST /api/v1/build.
func (h *Handlers) Build(w http.ResponseWriter, r *http.Request) {
	if h.Builder == nil {
		writeError(w, http.StatusServiceUnavailable, "build is not enabled")
		return
	}
	req, ok := readJSON[BuildRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if req.Format == "" {
		req.Format = h.DefaultFormat
	}

	res, err := h.Builder.Build(r.Context(), req.Format, req.Only...)
	if err != nil {
		writeDomainError(w, err, "no matching agents")
		return
	}
	writeJSON(w, http.StatusOK, BuildResponse{
		BuildID:   res.BuildID,
		Documents: len(res.Documents),
		Changed:   res.Changed(),
		Files:     orEmpty(res.Files),
	})
}

// ListDocuments handles GET /api/v1/documents?limit=50. The service caps
// the limit.
func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if h.Publish == nil {
		writeError(w, http.StatusServiceUnavailable, "document store is not configured")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	handleList(func(ctx context.Context) ([]compile.Record, error) {
		return h.Publish.History(ctx, limit)
	})(w, r)
}

// LatestDocument handles GET /api/v1/documents/{id}?format=. format falls
// back to DefaultFormat.
func (h *Handlers) LatestDocument(w http.ResponseWriter, r *http.Request) {
	if h.Publish == nil {
		writeError(w, http.StatusServiceUnavailable, "document store is not configured")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = h.DefaultFormat
	}
	handleGet("id", "document", func(ctx context.Context, id string) (*compile.Record, error) {
		return h.Publish.Latest(ctx, id, format)
	})(w, r)
}
