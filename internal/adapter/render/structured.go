package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// portable is the on-disk form of a document. Build ID and compile time
// are left out so unchanged definitions render to identical bytes.
type portable struct {
	ID          string            `json:"id" yaml:"id" toml:"id"`
	Archetype   agent.Archetype   `json:"archetype" yaml:"archetype" toml:"archetype"`
	Fingerprint string            `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	Includes    []string          `json:"includes,omitempty" yaml:"includes,omitempty" toml:"includes,omitempty"`
	Definition  *agent.Definition `json:"definition" yaml:"definition" toml:"definition"`
}

func toPortable(doc *compile.Document) portable {
	return portable{
		ID:          doc.ID,
		Archetype:   doc.Archetype,
		Fingerprint: doc.Fingerprint,
		Includes:    doc.Includes,
		Definition:  doc.Definition,
	}
}

// JSON renders indented JSON.
type JSON struct{}

func (JSON) Format() string      { return FormatJSON }
func (JSON) Extension() string   { return "json" }
func (JSON) ContentType() string { return "application/json" }

// Render implements renderer.Renderer.
func (JSON) Render(doc *compile.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(toPortable(doc)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAML renders a YAML document.
type YAML struct{}

func (YAML) Format() string      { return FormatYAML }
func (YAML) Extension() string   { return "yaml" }
func (YAML) ContentType() string { return "application/yaml" }

// Render implements renderer.Renderer.
func (YAML) Render(doc *compile.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toPortable(doc)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TOML renders a TOML document.
type TOML struct{}

func (TOML) Format() string      { return FormatTOML }
func (TOML) Extension() string   { return "toml" }
func (TOML) ContentType() string { return "application/toml" }

// Render implements renderer.Renderer.
func (TOML) Render(doc *compile.Document) ([]byte, error) {
	return toml.Marshal(toPortable(doc))
}

// Decode parses a document rendered as json, yaml or toml and checks that
// its fingerprint still matches the definition.
func Decode(format string, data []byte) (*compile.Document, error) {
	var p portable
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &p)
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	default:
		return nil, fmt.Errorf("%w: format %q cannot be decoded", domain.ErrValidation, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if p.Definition == nil {
		return nil, fmt.Errorf("%w: decode %s: missing definition", domain.ErrValidation, format)
	}
	if err := p.Definition.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	fp, err := compile.Fingerprint(p.Definition)
	if err != nil {
		return nil, err
	}
	if p.Fingerprint != "" && p.Fingerprint != fp {
		return nil, fmt.Errorf("%w: decode %s: fingerprint mismatch for %s", domain.ErrValidation, format, p.ID)
	}

	return &compile.Document{
		ID:          p.ID,
		Archetype:   p.Archetype,
		Fingerprint: fp,
		Includes:    p.Includes,
		Definition:  p.Definition,
	}, nil
}
