// Package bundle defines content bundles: named, reusable collections of
// sections that definitions pull in through their include list.
package bundle

import (
	"fmt"
	"regexp"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
)

// Group categorizes a bundle for listing.
type Group string

const (
	GroupUniversal Group = "universal"
	GroupAgent     Group = "agent"
	GroupVariation Group = "variation"
	GroupCustom    Group = "custom"
)

// Bundle is a reusable collection of sections. Includes are expanded before
// the bundle's own sections.
type Bundle struct {
	Name        string          `json:"name" yaml:"name"`
	Group       Group           `json:"group" yaml:"group"`
	Description string          `json:"description" yaml:"description"`
	Includes    []string        `json:"includes,omitempty" yaml:"includes,omitempty"`
	Sections    []agent.Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	Builtin     bool            `json:"builtin" yaml:"-"`
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate checks bundle invariants and stamps the bundle name as the source
// of sections that have none.
func (b *Bundle) Validate() error {
	if !namePattern.MatchString(b.Name) {
		return fmt.Errorf("%w: bundle: invalid name %q", domain.ErrValidation, b.Name)
	}
	switch b.Group {
	case "":
		b.Group = GroupCustom
	case GroupUniversal, GroupAgent, GroupVariation, GroupCustom:
	default:
		return fmt.Errorf("%w: bundle %s: invalid group %q", domain.ErrValidation, b.Name, b.Group)
	}
	for i, inc := range b.Includes {
		if inc == "" {
			return fmt.Errorf("%w: bundle %s: include %d is empty", domain.ErrValidation, b.Name, i)
		}
		if inc == b.Name {
			return fmt.Errorf("%w: bundle %s includes itself", ErrCycle, b.Name)
		}
	}
	for i := range b.Sections {
		if b.Sections[i].Source == "" {
			b.Sections[i].Source = b.Name
		}
	}
	if err := agent.ValidateSections(b.Sections); err != nil {
		return fmt.Errorf("bundle %s: %w", b.Name, err)
	}
	return nil
}

// Define builds a bundle from builder calls, the same way definitions are built.
// It panics on builder misuse; use it only for package-level presets.
func Define(name string, group Group, description string, includes []string, handle func(*agent.Builder)) Bundle {
	sections, err := agent.BuildSections(name, handle)
	if err != nil {
		panic(fmt.Sprintf("bundle %s: %v", name, err))
	}
	b := Bundle{
		Name:        name,
		Group:       group,
		Description: description,
		Includes:    includes,
		Sections:    sections,
		Builtin:     true,
	}
	if err := b.Validate(); err != nil {
		panic(err.Error())
	}
	return b
}
