package cache_test

import (
	"testing"

	"github.com/Strob0t/brainnode/internal/port/cache"
)

func TestRenderKey(t *testing.T) {
	if got := cache.RenderKey("database-master", "markdown", "abc"); got != "database-master:markdown:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}
