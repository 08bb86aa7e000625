package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Compiler is the subset of the compile service the handler needs.
type Compiler interface {
	Compile(ctx context.Context, id string) (*compile.Document, error)
	CompileAll(ctx context.Context) ([]*compile.Document, error)
}

// Handler serves agent cards.
type Handler struct {
	baseURL  string
	version  string
	compiler Compiler
}

// NewHandler creates an A2A handler.
func NewHandler(baseURL, version string, compiler Compiler) *Handler {
	return &Handler{baseURL: baseURL, version: version, compiler: compiler}
}

// MountRoutes registers A2A routes on the given chi router.
// These are mounted at the root level, not under /api/v1.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/.well-known/agent-card.json", h.handleBrainCard)
	r.Get("/a2a/agents", h.handleListCards)
	r.Get("/a2a/agents/{id}", h.handleAgentCard)
}

func (h *Handler) handleBrainCard(w http.ResponseWriter, r *http.Request) {
	docs, err := h.compiler.CompileAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	for _, doc := range docs {
		if doc.IsBrain() {
			writeCard(w, BuildAgentCard(doc, h.baseURL, h.version))
			return
		}
	}
	http.Error(w, `{"error":"no brain definition"}`, http.StatusNotFound)
}

func (h *Handler) handleListCards(w http.ResponseWriter, r *http.Request) {
	docs, err := h.compiler.CompileAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cards := make([]any, len(docs))
	for i, doc := range docs {
		cards[i] = BuildAgentCard(doc, h.baseURL, h.version)
	}
	writeCard(w, cards)
}

func (h *Handler) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	doc, err := h.compiler.Compile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCard(w, BuildAgentCard(doc, h.baseURL, h.version))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, `{"error":"agent not found"}`, http.StatusNotFound)
		return
	}
	slog.ErrorContext(r.Context(), "a2a card", "error", err)
	http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
}

func writeCard(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
