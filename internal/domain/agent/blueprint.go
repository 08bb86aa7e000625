package agent

import (
	"fmt"
	"slices"

	"github.com/Strob0t/brainnode/internal/domain"
)

// Config is the declarative header of a definition.
type Config struct {
	ID        string
	Archetype Archetype
	Meta      []MetaPair
	Purpose   string
	// Includes names bundles composed into the definition, in order.
	Includes []string
}

// Meta is shorthand for a MetaPair literal.
func Meta(key, value string) MetaPair {
	return MetaPair{Key: key, Value: value}
}

// Blueprint pairs a Config with the function that populates its sections.
// Handle is invoked exactly once per Build.
type Blueprint struct {
	Config Config
	Handle func(b *Builder)
}

// ID returns the configured identifier.
func (bp *Blueprint) ID() string { return bp.Config.ID }

// Build runs Handle and returns the immutable definition.
func (bp *Blueprint) Build() (*Definition, error) {
	cfg := bp.Config
	if !ValidID(cfg.ID) {
		return nil, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, cfg.ID)
	}
	if cfg.Archetype == "" {
		cfg.Archetype = ArchetypeAgent
	}
	for _, m := range cfg.Meta {
		if m.Key == "" {
			return nil, fmt.Errorf("%w: %s: empty meta key", domain.ErrValidation, cfg.ID)
		}
		if m.Key == "id" {
			return nil, fmt.Errorf("%w: %s: id is set through Config.ID", domain.ErrValidation, cfg.ID)
		}
	}
	for i, inc := range cfg.Includes {
		if inc == "" {
			return nil, fmt.Errorf("%w: %s: include %d is empty", domain.ErrValidation, cfg.ID, i)
		}
	}

	sections, err := BuildSections(cfg.ID, bp.Handle)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.ID, err)
	}

	def := &Definition{
		ID:        cfg.ID,
		Archetype: cfg.Archetype,
		Meta:      slices.Clone(cfg.Meta),
		Purpose:   cfg.Purpose,
		Includes:  slices.Clone(cfg.Includes),
		Sections:  sections,
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.ID, err)
	}
	return def, nil
}
