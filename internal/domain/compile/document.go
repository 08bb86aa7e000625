// Package compile defines compiled documents: a definition with all of its
// bundle includes merged in, ready to render.
package compile

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
)

// Document is the result of compiling one definition.
type Document struct {
	ID          string          `json:"id" yaml:"id" toml:"id"`
	Archetype   agent.Archetype `json:"archetype" yaml:"archetype" toml:"archetype"`
	BuildID     string          `json:"build_id" yaml:"build_id" toml:"build_id"`
	Fingerprint string          `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	CompiledAt  time.Time       `json:"compiled_at" yaml:"compiled_at" toml:"compiled_at"`
	// Includes lists resolved bundles in expansion order.
	Includes   []string          `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`
	Definition *agent.Definition `json:"definition" yaml:"definition" toml:"definition"`
}

// IsBrain reports whether the document is the root orchestrator.
func (d *Document) IsBrain() bool { return d.Archetype == agent.ArchetypeBrain }

// Merge returns a copy of def whose sections are the expanded bundle sections
// followed by def's own sections. Keys must be unique across all sources.
func Merge(def *agent.Definition, bundles []*bundle.Bundle) (*agent.Definition, error) {
	n := len(def.Sections)
	for _, b := range bundles {
		n += len(b.Sections)
	}

	merged := def.Clone()
	merged.Sections = make([]agent.Section, 0, n)
	for _, b := range bundles {
		merged.Sections = append(merged.Sections, agent.CloneSections(b.Sections)...)
	}
	merged.Sections = append(merged.Sections, agent.CloneSections(def.Sections)...)

	if err := agent.ValidateSections(merged.Sections); err != nil {
		return nil, fmt.Errorf("compile %s: %w", def.ID, err)
	}
	return merged, nil
}

// Fingerprint is the hex blake2b-256 digest of the definition's JSON form.
// It changes only when rendered content could change.
func Fingerprint(def *agent.Definition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", def.ID, err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
