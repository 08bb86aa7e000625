// Package agent defines agent definitions: metadata, purpose, includes and an
// ordered body of guideline and rule sections.
package agent

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/Strob0t/brainnode/internal/domain"
)

// Archetype distinguishes the root orchestrator from specialist agents.
type Archetype string

const (
	ArchetypeBrain Archetype = "brain"
	ArchetypeAgent Archetype = "agent"
)

// Kind is the section kind.
type Kind string

const (
	KindGuideline Kind = "guideline"
	KindRule      Kind = "rule"
)

// Severity applies to rules only. The zero value means no severity was set.
type Severity string

const (
	SeverityNone     Severity = ""
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
)

// MetaPair is one display metadata entry. Order is preserved on render.
type MetaPair struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Phase is one named step of a phased example.
type Phase struct {
	Name string `json:"name" yaml:"name" toml:"name"`
	Text string `json:"text" yaml:"text" toml:"text"`
}

// Entry is either a flat example (Text, optional Key) or a phased example (Phases).
type Entry struct {
	Text   string  `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Key    string  `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Phases []Phase `json:"phases,omitempty" yaml:"phases,omitempty" toml:"phases,omitempty"`
}

// IsPhased reports whether the entry is a phased example.
func (e *Entry) IsPhased() bool { return len(e.Phases) > 0 }

// Section is a guideline or a rule.
type Section struct {
	Key         string   `json:"key" yaml:"key" toml:"key"`
	Kind        Kind     `json:"kind" yaml:"kind" toml:"kind"`
	Text        string   `json:"text,omitempty" yaml:"text,omitempty" toml:"text,omitempty"`
	Severity    Severity `json:"severity,omitempty" yaml:"severity,omitempty" toml:"severity,omitempty"`
	Why         string   `json:"why,omitempty" yaml:"why,omitempty" toml:"why,omitempty"`
	OnViolation string   `json:"on_violation,omitempty" yaml:"on_violation,omitempty" toml:"on_violation,omitempty"`
	Entries     []Entry  `json:"entries,omitempty" yaml:"entries,omitempty" toml:"entries,omitempty"`
	// Source names the definition or bundle the section came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
}

// Definition is a fully built agent or brain document body.
type Definition struct {
	ID        string     `json:"id" yaml:"id" toml:"id"`
	Archetype Archetype  `json:"archetype" yaml:"archetype" toml:"archetype"`
	Meta      []MetaPair `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
	Purpose   string     `json:"purpose,omitempty" yaml:"purpose,omitempty" toml:"purpose,omitempty"`
	Includes  []string   `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`
	Sections  []Section  `json:"sections" yaml:"sections" toml:"sections"`
}

// MetaValue returns the value for a metadata key.
func (d *Definition) MetaValue(key string) (string, bool) {
	for _, m := range d.Meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// Section returns the section with the given key.
func (d *Definition) Section(key string) (Section, bool) {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			return d.Sections[i], true
		}
	}
	return Section{}, false
}

// Clone returns a deep copy.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Meta = slices.Clone(d.Meta)
	c.Includes = slices.Clone(d.Includes)
	c.Sections = CloneSections(d.Sections)
	return &c
}

// CloneSections deep-copies sections including their entries and phases.
func CloneSections(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i := range in {
		out[i] = in[i]
		if in[i].Entries != nil {
			out[i].Entries = make([]Entry, len(in[i].Entries))
			for j := range in[i].Entries {
				out[i].Entries[j] = in[i].Entries[j]
				out[i].Entries[j].Phases = slices.Clone(in[i].Entries[j].Phases)
			}
		}
	}
	return out
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidID reports whether id is a lowercase kebab-case identifier.
func ValidID(id string) bool { return idPattern.MatchString(id) }

// Validate checks definition invariants: a valid id and archetype, and
// well-formed sections with unique keys.
func (d *Definition) Validate() error {
	if !ValidID(d.ID) {
		return fmt.Errorf("%w: invalid id %q", domain.ErrValidation, d.ID)
	}
	if d.Archetype != ArchetypeBrain && d.Archetype != ArchetypeAgent {
		return fmt.Errorf("%w: %s: invalid archetype %q", domain.ErrValidation, d.ID, d.Archetype)
	}
	return ValidateSections(d.Sections)
}

// ValidateSections checks that every section is well-formed and that keys are unique.
func ValidateSections(sections []Section) error {
	seen := make(map[string]string, len(sections))
	for i := range sections {
		s := &sections[i]
		if err := s.Validate(); err != nil {
			return err
		}
		if prev, dup := seen[s.Key]; dup {
			return fmt.Errorf("%w: %q defined by %s and %s", ErrDuplicateKey, s.Key, sourceName(prev), sourceName(s.Source))
		}
		seen[s.Key] = s.Source
	}
	return nil
}

// Validate checks a single section.
func (s *Section) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("%w: section key is empty", domain.ErrValidation)
	}
	switch s.Kind {
	case KindGuideline:
		if s.Severity != SeverityNone || s.Why != "" || s.OnViolation != "" {
			return fmt.Errorf("%w: %s: severity, why and on_violation apply to rules only", ErrRuleOnly, s.Key)
		}
	case KindRule:
		if s.Severity != SeverityNone && s.Severity != SeverityCritical && s.Severity != SeverityHigh {
			return fmt.Errorf("%w: %s: invalid severity %q", domain.ErrValidation, s.Key, s.Severity)
		}
	default:
		return fmt.Errorf("%w: %s: invalid kind %q", domain.ErrValidation, s.Key, s.Kind)
	}
	for j := range s.Entries {
		e := &s.Entries[j]
		if e.IsPhased() && (e.Text != "" || e.Key != "") {
			return fmt.Errorf("%w: %s: entry %d mixes text and phases", domain.ErrValidation, s.Key, j)
		}
		if !e.IsPhased() && e.Text == "" {
			return fmt.Errorf("%w: %s: entry %d is empty", domain.ErrValidation, s.Key, j)
		}
	}
	return nil
}

func sourceName(s string) string {
	if s == "" {
		return "<unknown>"
	}
	return s
}
