package service

import (
	"context"
	"testing"
	"time"
)

func TestRenderService_CachesByFingerprint(t *testing.T) {
	_, _, c := newTestServices(t, "")
	r := &textRenderer{}
	mc := newMemCache()
	s := NewRenderService(fakeRegistry{r: r}, mc, time.Minute)

	doc, err := c.Compile(context.Background(), "database-master")
	if err != nil {
		t.Fatal(err)
	}

	for range 3 {
		if _, _, err := s.Render(context.Background(), doc, "text"); err != nil {
			t.Fatal(err)
		}
	}
	if r.calls != 1 {
		t.Fatalf("expected one render, got %d", r.calls)
	}

	// A recompile under a new build id keeps the fingerprint and the cache entry.
	again, err := c.Compile(context.Background(), "database-master")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Render(context.Background(), again, "text"); err != nil {
		t.Fatal(err)
	}
	if r.calls != 1 {
		t.Fatalf("expected cache hit across builds, got %d renders", r.calls)
	}

	changed := *again
	changed.Fingerprint = "other"
	if _, _, err := s.Render(context.Background(), &changed, "text"); err != nil {
		t.Fatal(err)
	}
	if r.calls != 2 {
		t.Fatalf("expected a new render for a new fingerprint, got %d", r.calls)
	}
}

func TestRenderService_NoCache(t *testing.T) {
	_, _, c := newTestServices(t, "")
	r := &textRenderer{}
	s := NewRenderService(fakeRegistry{r: r}, nil, time.Minute)

	doc, _ := c.Compile(context.Background(), "brain-core")
	for range 2 {
		if _, _, err := s.Render(context.Background(), doc, "text"); err != nil {
			t.Fatal(err)
		}
	}
	if r.calls != 2 {
		t.Fatalf("expected two renders without cache, got %d", r.calls)
	}
}
