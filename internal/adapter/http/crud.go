package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Strob0t/brainnode/internal/domain"
)

// handleList serves the slice returned by listFn. A nil slice is sent as [].
func handleList[T any](listFn func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := listFn(r.Context())
		if err != nil {
			writeInternalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(items))
	}
}

// handleGet looks up the URL parameter param. Misses answer 404 naming the
// noun and key.
func handleGet[T any](param, noun string, getFn func(ctx context.Context, key string) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, param)
		item, err := getFn(r.Context(), key)
		if err != nil {
			writeDomainError(w, err, fmt.Sprintf("%s %q not found", noun, key))
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleCreate decodes Req, calls createFn and answers 201 with a Location
// header built from the result. A missing reference inside the request body
// answers 422.
func handleCreate[Req, Res any](location func(*Res) string, createFn func(ctx context.Context, req *Req) (*Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := readJSON[Req](w, r, maxRequestBodySize)
		if !ok {
			return
		}
		res, err := createFn(r.Context(), &req)
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, stripSentinel(err, domain.ErrNotFound))
			return
		}
		if err != nil {
			writeDomainError(w, err, "not found")
			return
		}
		if location != nil {
			w.Header().Set("Location", location(res))
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
