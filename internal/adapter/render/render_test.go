package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

func testDoc(t *testing.T, archetype agent.Archetype) *compile.Document {
	t.Helper()
	def := &agent.Definition{
		ID:        "database-master",
		Archetype: archetype,
		Meta: []agent.MetaPair{
			agent.Meta("model", "sonnet"),
			agent.Meta("color", "cyan"),
			agent.Meta("description", "SQLite specialist: WAL, vec0"),
		},
		Purpose:  "SQLite optimization.\nSecond line.",
		Includes: []string{"base-constraints"},
		Sections: []agent.Section{
			{Key: "constraint-scope", Kind: agent.KindRule, Severity: agent.SeverityCritical, Text: "Stay in scope.", Why: "Focus.", OnViolation: "Stop.", Source: "base-constraints"},
			{Key: "wal-mode-optimization", Kind: agent.KindGuideline, Text: "Use WAL.", Source: "database-master", Entries: []agent.Entry{
				{Text: "PRAGMA journal_mode=WAL", Key: "enable-wal"},
				{Text: "multi\nline"},
				{Phases: []agent.Phase{{Name: "measure", Text: "EXPLAIN"}, {Name: "fix", Text: "add index"}}},
			}},
		},
	}
	if archetype == agent.ArchetypeBrain {
		def.ID = "brain-core"
		def.Meta = nil
	}
	fp, err := compile.Fingerprint(def)
	if err != nil {
		t.Fatal(err)
	}
	return &compile.Document{ID: def.ID, Archetype: archetype, BuildID: "b1", Fingerprint: fp, Includes: []string{"base-constraints"}, Definition: def}
}

func TestMarkdownAgent(t *testing.T) {
	out, err := Markdown{}.Render(testDoc(t, agent.ArchetypeAgent))
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)

	if !strings.HasPrefix(md, "---\nname: database-master\nmodel: sonnet\ncolor: cyan\ndescription: ") {
		t.Fatalf("unexpected front matter:\n%s", md)
	}
	for _, want := range []string{
		"SQLite specialist: WAL, vec0",
		"---\n\nSQLite optimization.\nSecond line.\n",
		"## constraint-scope\n\n**Rule (critical)**: Stay in scope.\n",
		"- Why: Focus.\n- On violation: Stop.\n",
		"- **enable-wal**: PRAGMA journal_mode=WAL\n",
		"- multi\n  line\n",
		"- Steps:\n  1. **measure**: EXPLAIN\n  2. **fix**: add index\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
	if strings.Index(md, "constraint-scope") > strings.Index(md, "wal-mode-optimization") {
		t.Error("sections out of order")
	}
}

func TestMarkdownBrainHasNoFrontMatter(t *testing.T) {
	out, err := Markdown{}.Render(testDoc(t, agent.ArchetypeBrain))
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(out), "---") {
		t.Fatalf("brain should render without front matter:\n%s", out)
	}
	if strings.Contains(string(out), "name:") {
		t.Fatal("brain should not carry a name")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, r := range []interface {
		Format() string
		Render(*compile.Document) ([]byte, error)
	}{JSON{}, YAML{}, TOML{}} {
		t.Run(r.Format(), func(t *testing.T) {
			doc := testDoc(t, agent.ArchetypeAgent)
			data, err := r.Render(doc)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(r.Format(), data)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, data)
			}
			if got.Fingerprint != doc.Fingerprint {
				t.Fatalf("fingerprint changed: %s != %s", got.Fingerprint, doc.Fingerprint)
			}
			sec, ok := got.Definition.Section("wal-mode-optimization")
			if !ok || len(sec.Entries) != 3 || sec.Entries[0].Key != "enable-wal" {
				t.Fatalf("entries not preserved: %+v", sec)
			}
			if len(sec.Entries[2].Phases) != 2 || sec.Entries[2].Phases[1].Name != "fix" {
				t.Fatalf("phases not preserved: %+v", sec.Entries[2])
			}
		})
	}
}

func TestRenderIsStableAcrossBuilds(t *testing.T) {
	a := testDoc(t, agent.ArchetypeAgent)
	b := testDoc(t, agent.ArchetypeAgent)
	b.BuildID = "b2"

	for _, format := range []string{FormatJSON, FormatYAML, FormatTOML, FormatMarkdown} {
		r, err := Default("http://localhost:8085", "0.1.0").Get(format)
		if err != nil {
			t.Fatal(err)
		}
		da, _ := r.Render(a)
		db, _ := r.Render(b)
		if string(da) != string(db) {
			t.Errorf("%s output depends on build id", format)
		}
	}
}

func TestDecodeFingerprintMismatch(t *testing.T) {
	doc := testDoc(t, agent.ArchetypeAgent)
	doc.Fingerprint = "deadbeef"
	data, err := JSON{}.Render(doc)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(FormatJSON, data); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeUnsupported(t *testing.T) {
	if _, err := Decode(FormatMarkdown, []byte("# x")); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := Default("http://localhost:8085", "0.1.0")

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"", FormatMarkdown, true},
		{"md", FormatMarkdown, true},
		{"yml", FormatYAML, true},
		{"toml", FormatTOML, true},
		{"a2a", FormatA2A, true},
		{"html", "", false},
	}
	for _, tt := range tests {
		r, err := reg.Get(tt.in)
		if !tt.ok {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("%q: expected ErrNotFound, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if r.Format() != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, r.Format())
		}
	}

	if got := strings.Join(reg.Formats(), ","); got != "a2a,json,markdown,toml,yaml" {
		t.Errorf("unexpected formats %s", got)
	}
}

func TestA2ARender(t *testing.T) {
	out, err := A2A{BaseURL: "http://x", Version: "1"}.Render(testDoc(t, agent.ArchetypeAgent))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"constraint-scope"`) {
		t.Fatalf("expected skill id in card:\n%s", out)
	}
}
