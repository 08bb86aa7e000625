package otel

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Strob0t/brainnode/internal/config"
)

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	h := HTTPMiddleware("brain")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, path := range []string{"/health", "/api/v1/agents"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("%s: expected 418, got %d", path, rec.Code)
		}
	}
}

func TestNewMetrics_NoopProvider(t *testing.T) {
	m, err := NewMetrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Compiles == nil || m.CompileDuration == nil {
		t.Fatal("expected instruments")
	}
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(t.Context(), config.OTEL{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(t.Context()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
