package render

import (
	"encoding/json"

	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/a2a"
)

// A2A renders an A2A agent card.
type A2A struct {
	BaseURL string
	Version string
}

func (A2A) Format() string      { return FormatA2A }
func (A2A) Extension() string   { return "card.json" }
func (A2A) ContentType() string { return "application/json" }

// Render implements renderer.Renderer.
func (r A2A) Render(doc *compile.Document) ([]byte, error) {
	data, err := json.MarshalIndent(a2a.BuildAgentCard(doc, r.BaseURL, r.Version), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
