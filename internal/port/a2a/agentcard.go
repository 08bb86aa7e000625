// Package a2a publishes compiled documents as A2A agent cards.
package a2a

import (
	"strings"

	"github.com/a2aproject/a2a-go/a2a"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// ProtocolVersion is the A2A protocol version the cards declare.
const ProtocolVersion = "0.3.0"

// BuildAgentCard describes doc as an agent card. Each guideline and rule
// becomes one skill.
func BuildAgentCard(doc *compile.Document, baseURL, version string) a2a.AgentCard {
	def := doc.Definition
	skills := make([]a2a.AgentSkill, 0, len(def.Sections))
	for i := range def.Sections {
		skills = append(skills, skillFor(&def.Sections[i]))
	}

	return a2a.AgentCard{
		Name:               doc.ID,
		Description:        describe(def),
		URL:                strings.TrimSuffix(baseURL, "/") + "/a2a/agents/" + doc.ID,
		Version:            version,
		ProtocolVersion:    ProtocolVersion,
		Capabilities:       a2a.AgentCapabilities{Streaming: false},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/markdown"},
		Skills:             skills,
	}
}

func skillFor(s *agent.Section) a2a.AgentSkill {
	tags := []string{string(s.Kind)}
	if s.Severity != agent.SeverityNone {
		tags = append(tags, string(s.Severity))
	}
	if s.Source != "" {
		tags = append(tags, s.Source)
	}

	var examples []string
	for _, e := range s.Entries {
		if !e.IsPhased() {
			examples = append(examples, e.Text)
		}
	}

	desc := s.Text
	if desc == "" && len(examples) > 0 {
		desc = examples[0]
	}

	return a2a.AgentSkill{
		ID:          s.Key,
		Name:        title(s.Key),
		Description: desc,
		Tags:        tags,
		Examples:    examples,
	}
}

// describe prefers the description metadata and falls back to the first
// line of the purpose.
func describe(def *agent.Definition) string {
	if d, ok := def.MetaValue("description"); ok && d != "" {
		return d
	}
	first, _, _ := strings.Cut(strings.TrimSpace(def.Purpose), "\n")
	return first
}

// title turns "wal-mode-optimization" into "Wal Mode Optimization".
func title(key string) string {
	words := strings.Split(key, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
