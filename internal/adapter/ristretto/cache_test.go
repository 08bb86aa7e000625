package ristretto

import (
	"testing"

	"github.com/Strob0t/brainnode/internal/port/cache/cachetest"
)

func TestCache_Compliance(t *testing.T) {
	c, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	cachetest.Run(t, c)
}
