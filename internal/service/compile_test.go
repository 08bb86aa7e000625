package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

func TestCompile_DatabaseMaster(t *testing.T) {
	_, _, c := newTestServices(t, "")

	doc, err := c.Compile(context.Background(), "database-master")
	if err != nil {
		t.Fatal(err)
	}
	if doc.BuildID == "" || doc.Fingerprint == "" {
		t.Fatalf("expected build id and fingerprint, got %+v", doc)
	}
	if strings.Join(doc.Includes, ",") != strings.Join(bundle.StandardAgentIncludes(), ",") {
		t.Fatalf("unexpected include order %v", doc.Includes)
	}

	// Bundle sections come first, the definition's own sections last.
	first := doc.Definition.Sections[0]
	if first.Source != bundle.BaseConstraints {
		t.Fatalf("expected first section from %s, got %s", bundle.BaseConstraints, first.Source)
	}
	wal, ok := doc.Definition.Section("wal-mode-optimization")
	if !ok || wal.Source != "database-master" {
		t.Fatalf("expected own wal-mode-optimization section, got %+v", wal)
	}
	if wal.Entries[0].Text != "PRAGMA journal_mode=WAL" || wal.Entries[0].Key != "enable-wal" {
		t.Fatalf("unexpected first wal entry %+v", wal.Entries[0])
	}
}

func TestCompile_MasterVariationMatchesStandardIncludes(t *testing.T) {
	_, _, c := newTestServices(t, "")

	sec, err := c.Compile(context.Background(), "security-audit-master")
	if err != nil {
		t.Fatal(err)
	}
	// master expands to the standard bundles followed by itself.
	want := append(bundle.StandardAgentIncludes(), bundle.Master)
	if strings.Join(sec.Includes, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, sec.Includes)
	}
}

func TestCompile_UniqueKeysForAllShipped(t *testing.T) {
	_, _, c := newTestServices(t, "")

	docs, err := c.CompileAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, doc := range docs {
		seen := map[string]bool{}
		for _, s := range doc.Definition.Sections {
			if seen[s.Key] {
				t.Errorf("%s: duplicate key %s", doc.ID, s.Key)
			}
			seen[s.Key] = true
		}
	}
}

func TestCompileAll_OrderAndSharedBuildID(t *testing.T) {
	agents, _, c := newTestServices(t, "")

	docs, err := c.CompileAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ids := agents.IDs()
	if len(docs) != len(ids) {
		t.Fatalf("expected %d docs, got %d", len(ids), len(docs))
	}
	for i, doc := range docs {
		if doc.ID != ids[i] {
			t.Fatalf("position %d: expected %s, got %s", i, ids[i], doc.ID)
		}
		if doc.BuildID != docs[0].BuildID {
			t.Fatal("documents of one run should share a build id")
		}
	}
	if !docs[0].IsBrain() {
		t.Fatal("expected the brain first")
	}
}

func TestCompile_Deterministic(t *testing.T) {
	_, _, c := newTestServices(t, "")

	a, err := c.Compile(context.Background(), "testing-master")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Compile(context.Background(), "testing-master")
	if err != nil {
		t.Fatal(err)
	}
	if a.Fingerprint != b.Fingerprint {
		t.Fatal("fingerprint changed between identical compiles")
	}
	if a.BuildID == b.BuildID {
		t.Fatal("each Compile call should get its own build id")
	}
}

func TestCompile_NotFound(t *testing.T) {
	_, _, c := newTestServices(t, "")
	if _, err := c.Compile(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompile_UnresolvedInclude(t *testing.T) {
	agents, _, c := newTestServices(t, "")
	events := &mockBroadcaster{}
	c.SetBroadcaster(events)

	err := agents.Register(&agent.Definition{ID: "orphan", Archetype: agent.ArchetypeAgent, Includes: []string{"missing-bundle"}, Sections: []agent.Section{}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Compile(context.Background(), "orphan")
	if !errors.Is(err, bundle.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if !strings.Contains(err.Error(), `"missing-bundle" requested by orphan`) {
		t.Fatalf("error should name bundle and requester: %v", err)
	}
	failed := events.byAction(compile.ActionFailed)
	if len(failed) != 1 || failed[0].ID != "orphan" || failed[0].Error == "" {
		t.Fatalf("expected one failed event, got %+v", failed)
	}
}

func TestCompile_DuplicateKeyAcrossSources(t *testing.T) {
	agents, _, c := newTestServices(t, "")

	err := agents.Register(&agent.Definition{
		ID:        "clash",
		Archetype: agent.ArchetypeAgent,
		Includes:  []string{bundle.BaseConstraints},
		Sections:  []agent.Section{{Key: "constraint-scope", Kind: agent.KindGuideline, Text: "mine", Source: "clash"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Compile(context.Background(), "clash")
	if !errors.Is(err, agent.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "base-constraints") || !strings.Contains(err.Error(), "clash") {
		t.Fatalf("error should name both sources: %v", err)
	}
}

func TestCompile_CustomBundleAfterReload(t *testing.T) {
	dir := t.TempDir()
	agents, bundles, c := newTestServices(t, dir)

	err := agents.Register(&agent.Definition{ID: "styled", Archetype: agent.ArchetypeAgent, Includes: []string{"team-style"}, Sections: []agent.Section{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Compile(context.Background(), "styled"); !errors.Is(err, bundle.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved before the bundle exists, got %v", err)
	}

	writeBundle(t, dir, "team.yaml", customBundle)
	if err := bundles.Reload(); err != nil {
		t.Fatal(err)
	}
	doc, err := c.Compile(context.Background(), "styled")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(doc.Includes, ",") != "base-constraints,team-style" {
		t.Fatalf("unexpected includes %v", doc.Includes)
	}
}

func TestCompile_EmitsCompiledEvents(t *testing.T) {
	_, _, c := newTestServices(t, "")
	events := &mockBroadcaster{}
	c.SetBroadcaster(events)

	docs, err := c.CompileAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(events.byAction(compile.ActionCompiled)); got != len(docs) {
		t.Fatalf("expected %d compiled events, got %d", len(docs), got)
	}
}

func TestCompileIDs_CanceledContext(t *testing.T) {
	_, _, c := newTestServices(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.CompileAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSelect(t *testing.T) {
	_, _, c := newTestServices(t, "")

	tests := []struct {
		name     string
		patterns []string
		want     string
		wantErr  error
	}{
		{name: "all", want: "brain-core,database-master,python-mcp-master,security-audit-master,testing-master"},
		{name: "suffix glob", patterns: []string{"*-master"}, want: "database-master,python-mcp-master,security-audit-master,testing-master"},
		{name: "alternation", patterns: []string{"{database,testing}-master"}, want: "database-master,testing-master"},
		{name: "exact plus glob", patterns: []string{"brain-core", "sec*"}, want: "brain-core,security-audit-master"},
		{name: "no match", patterns: []string{"frontend-*"}, wantErr: domain.ErrNotFound},
		{name: "bad pattern", patterns: []string{"[a-"}, wantErr: domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := c.Select(tt.patterns...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCompileDefinition(t *testing.T) {
	agents, _, c := newTestServices(t, "")

	tests := []struct {
		name    string
		def     *agent.Definition
		wantErr error
	}{
		{"resolves", &agent.Definition{ID: "candidate", Archetype: agent.ArchetypeAgent, Includes: []string{bundle.BaseConstraints}, Sections: []agent.Section{}}, nil},
		{"unresolved include", &agent.Definition{ID: "candidate", Archetype: agent.ArchetypeAgent, Includes: []string{"missing"}, Sections: []agent.Section{}}, bundle.ErrUnresolved},
		{"duplicate key", &agent.Definition{
			ID:        "candidate",
			Archetype: agent.ArchetypeAgent,
			Includes:  []string{bundle.BaseConstraints},
			Sections:  []agent.Section{{Key: "constraint-scope", Kind: agent.KindGuideline, Text: "mine", Source: "candidate"}},
		}, agent.ErrDuplicateKey},
		{"invalid id", &agent.Definition{ID: "Bad ID", Archetype: agent.ArchetypeAgent}, domain.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := c.CompileDefinition(context.Background(), tt.def)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil || doc.Fingerprint == "" {
				t.Fatalf("expected compiled document, got %+v, %v", doc, err)
			}
			if _, err := agents.Get("candidate"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatal("CompileDefinition must not register the candidate")
			}
		})
	}
}
