// Package render implements the output formats for compiled documents:
// markdown agent files, JSON, YAML, TOML and A2A agent cards.
package render

import (
	"fmt"
	"sort"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/port/renderer"
)

// Format names.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTOML     = "toml"
	FormatA2A      = "a2a"
)

// Registry maps format names to renderers. It implements renderer.Registry.
type Registry struct {
	renderers map[string]renderer.Renderer
	aliases   map[string]string
}

// NewRegistry creates a registry holding the given renderers.
func NewRegistry(renderers ...renderer.Renderer) *Registry {
	r := &Registry{
		renderers: make(map[string]renderer.Renderer, len(renderers)),
		aliases:   map[string]string{"md": FormatMarkdown, "yml": FormatYAML},
	}
	for _, rr := range renderers {
		r.renderers[rr.Format()] = rr
	}
	return r
}

// Default returns a registry with every built-in format. baseURL and
// version are used by the A2A card renderer.
func Default(baseURL, version string) *Registry {
	return NewRegistry(
		Markdown{},
		JSON{},
		YAML{},
		TOML{},
		A2A{BaseURL: baseURL, Version: version},
	)
}

// Get returns the renderer for format. Empty means markdown.
func (r *Registry) Get(format string) (renderer.Renderer, error) {
	if format == "" {
		format = FormatMarkdown
	}
	if alias, ok := r.aliases[format]; ok {
		format = alias
	}
	rr, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("format %q: %w", format, domain.ErrNotFound)
	}
	return rr, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
