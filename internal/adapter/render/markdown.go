package render

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Markdown renders a Claude agent file: YAML front matter, the purpose,
// then one heading per section. The brain has no name in its front matter.
type Markdown struct{}

func (Markdown) Format() string      { return FormatMarkdown }
func (Markdown) Extension() string   { return "md" }
func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

// Render implements renderer.Renderer.
func (Markdown) Render(doc *compile.Document) ([]byte, error) {
	def := doc.Definition
	var b strings.Builder

	fm, err := frontMatter(doc)
	if err != nil {
		return nil, fmt.Errorf("front matter %s: %w", doc.ID, err)
	}
	if fm != "" {
		b.WriteString("---\n")
		b.WriteString(fm)
		b.WriteString("---\n\n")
	}

	if purpose := strings.TrimSpace(def.Purpose); purpose != "" {
		b.WriteString(purpose)
		b.WriteString("\n")
	}

	for i := range def.Sections {
		b.WriteString("\n")
		writeSection(&b, &def.Sections[i])
	}
	return []byte(b.String()), nil
}

// frontMatter encodes name (agents only) followed by the metadata pairs in
// declaration order.
func frontMatter(doc *compile.Document) (string, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(k, v string) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v},
		)
	}

	if !doc.IsBrain() {
		add("name", doc.ID)
	}
	for _, m := range doc.Definition.Meta {
		add(m.Key, m.Value)
	}
	if len(node.Content) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeSection(b *strings.Builder, s *agent.Section) {
	fmt.Fprintf(b, "## %s\n\n", s.Key)

	if s.Kind == agent.KindRule {
		b.WriteString("**Rule")
		if s.Severity != agent.SeverityNone {
			fmt.Fprintf(b, " (%s)", s.Severity)
		}
		b.WriteString("**")
		if s.Text != "" {
			b.WriteString(": ")
			b.WriteString(s.Text)
		}
		b.WriteString("\n")
	} else if s.Text != "" {
		b.WriteString(s.Text)
		b.WriteString("\n")
	}

	if len(s.Entries) > 0 {
		b.WriteString("\n")
		for i := range s.Entries {
			writeEntry(b, &s.Entries[i])
		}
	}

	if s.Why != "" || s.OnViolation != "" {
		b.WriteString("\n")
		if s.Why != "" {
			fmt.Fprintf(b, "- Why: %s\n", indent(s.Why, "  "))
		}
		if s.OnViolation != "" {
			fmt.Fprintf(b, "- On violation: %s\n", indent(s.OnViolation, "  "))
		}
	}
}

func writeEntry(b *strings.Builder, e *agent.Entry) {
	if !e.IsPhased() {
		if e.Key != "" {
			fmt.Fprintf(b, "- **%s**: %s\n", e.Key, indent(e.Text, "  "))
			return
		}
		fmt.Fprintf(b, "- %s\n", indent(e.Text, "  "))
		return
	}
	b.WriteString("- Steps:\n")
	for i, p := range e.Phases {
		fmt.Fprintf(b, "  %d. **%s**: %s\n", i+1, p.Name, indent(p.Text, "     "))
	}
}

// indent prefixes every line after the first so multi-line text stays
// inside its list item.
func indent(s, prefix string) string {
	s = strings.TrimRight(s, "\n")
	if !strings.Contains(s, "\n") {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}
