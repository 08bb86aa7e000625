package agent

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Strob0t/brainnode/internal/domain"
)

var (
	// ErrDuplicateKey is returned when two sections share a key.
	ErrDuplicateKey = fmt.Errorf("%w: duplicate section key", domain.ErrValidation)

	// ErrRuleOnly is returned when a rule-only attribute is set on a guideline.
	ErrRuleOnly = fmt.Errorf("%w: rule-only attribute", domain.ErrValidation)
)

// Builder accumulates sections in declaration order. Misuse is recorded and
// reported once by the owner of the builder (Blueprint.Build or BuildSections).
type Builder struct {
	sections []*SectionBuilder
	keys     map[string]struct{}
	errs     []error
}

func newBuilder() *Builder {
	return &Builder{keys: make(map[string]struct{})}
}

// Guideline starts a new guideline section.
func (b *Builder) Guideline(key string) *SectionBuilder {
	return b.section(key, KindGuideline)
}

// Rule starts a new rule section.
func (b *Builder) Rule(key string) *SectionBuilder {
	return b.section(key, KindRule)
}

func (b *Builder) section(key string, kind Kind) *SectionBuilder {
	s := &SectionBuilder{b: b, key: key, kind: kind}
	switch {
	case key == "":
		b.fail(fmt.Errorf("%w: section key is empty", domain.ErrValidation))
	default:
		if _, dup := b.keys[key]; dup {
			b.fail(fmt.Errorf("%w: %q", ErrDuplicateKey, key))
		}
		b.keys[key] = struct{}{}
	}
	b.sections = append(b.sections, s)
	return s
}

func (b *Builder) fail(err error) {
	b.errs = append(b.errs, err)
}

// finish freezes the accumulated sections into values.
func (b *Builder) finish(source string) ([]Section, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	out := make([]Section, 0, len(b.sections))
	for _, sb := range b.sections {
		s, err := sb.freeze()
		if err != nil {
			return nil, err
		}
		s.Source = source
		out = append(out, s)
	}
	return out, nil
}

// BuildSections runs handle against a fresh builder and returns the frozen
// sections stamped with source.
func BuildSections(source string, handle func(*Builder)) ([]Section, error) {
	b := newBuilder()
	if handle != nil {
		handle(b)
	}
	return b.finish(source)
}

type draft struct {
	entry  Entry
	phased bool
}

// SectionBuilder populates one section. Every Guideline or Rule call returns
// a new SectionBuilder; nothing is shared between sections.
type SectionBuilder struct {
	b           *Builder
	key         string
	kind        Kind
	text        string
	severity    Severity
	why         string
	onViolation string
	drafts      []draft
}

// Text sets the section summary.
func (s *SectionBuilder) Text(text string) *SectionBuilder {
	s.text = text
	return s
}

// Example appends a flat example. Chain Key to tag it.
func (s *SectionBuilder) Example(text string) *ExampleBuilder {
	s.drafts = append(s.drafts, draft{entry: Entry{Text: text}})
	return &ExampleBuilder{SectionBuilder: s, idx: len(s.drafts) - 1}
}

// PhasedExample appends a multi-part example. Chain Phase to add its steps.
func (s *SectionBuilder) PhasedExample() *PhasedBuilder {
	s.drafts = append(s.drafts, draft{phased: true})
	return &PhasedBuilder{SectionBuilder: s, idx: len(s.drafts) - 1}
}

// Critical marks a rule as critical.
func (s *SectionBuilder) Critical() *SectionBuilder {
	return s.setSeverity(SeverityCritical)
}

// High marks a rule as high severity.
func (s *SectionBuilder) High() *SectionBuilder {
	return s.setSeverity(SeverityHigh)
}

// Why sets the rule rationale.
func (s *SectionBuilder) Why(text string) *SectionBuilder {
	if s.requireRule("why") {
		s.why = text
	}
	return s
}

// OnViolation sets the remediation text of a rule.
func (s *SectionBuilder) OnViolation(text string) *SectionBuilder {
	if s.requireRule("on_violation") {
		s.onViolation = text
	}
	return s
}

func (s *SectionBuilder) setSeverity(sev Severity) *SectionBuilder {
	if !s.requireRule(string(sev)) {
		return s
	}
	if s.severity != SeverityNone && s.severity != sev {
		s.b.fail(fmt.Errorf("%w: %s: severity already %s", domain.ErrValidation, s.key, s.severity))
		return s
	}
	s.severity = sev
	return s
}

func (s *SectionBuilder) requireRule(attr string) bool {
	if s.kind == KindRule {
		return true
	}
	s.b.fail(fmt.Errorf("%w: %s: %s on guideline", ErrRuleOnly, s.key, attr))
	return false
}

func (s *SectionBuilder) freeze() (Section, error) {
	sec := Section{
		Key:         s.key,
		Kind:        s.kind,
		Text:        s.text,
		Severity:    s.severity,
		Why:         s.why,
		OnViolation: s.onViolation,
	}
	if len(s.drafts) > 0 {
		sec.Entries = make([]Entry, 0, len(s.drafts))
	}
	for i, d := range s.drafts {
		if d.phased && len(d.entry.Phases) == 0 {
			return Section{}, fmt.Errorf("%w: %s: phased example %d has no phases", domain.ErrValidation, s.key, i)
		}
		e := d.entry
		e.Phases = slices.Clone(e.Phases)
		sec.Entries = append(sec.Entries, e)
	}
	return sec, sec.Validate()
}

// ExampleBuilder is returned by Example so the entry can be keyed.
type ExampleBuilder struct {
	*SectionBuilder
	idx int
}

// Key tags the example and returns the section builder.
func (e *ExampleBuilder) Key(key string) *SectionBuilder {
	d := &e.drafts[e.idx]
	switch {
	case key == "":
		e.b.fail(fmt.Errorf("%w: %s: empty example key", domain.ErrValidation, e.key))
	case d.entry.Key != "":
		e.b.fail(fmt.Errorf("%w: %s: example already keyed %q", domain.ErrValidation, e.key, d.entry.Key))
	default:
		d.entry.Key = key
	}
	return e.SectionBuilder
}

// PhasedBuilder appends phases to one phased example.
type PhasedBuilder struct {
	*SectionBuilder
	idx int
}

// Phase appends a named step.
func (p *PhasedBuilder) Phase(name, text string) *PhasedBuilder {
	if name == "" {
		p.b.fail(fmt.Errorf("%w: %s: empty phase name", domain.ErrValidation, p.key))
		return p
	}
	d := &p.drafts[p.idx]
	d.entry.Phases = append(d.entry.Phases, Phase{Name: name, Text: text})
	return p
}
