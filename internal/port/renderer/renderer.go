// Package renderer defines the port for turning compiled documents into bytes.
package renderer

import "github.com/Strob0t/brainnode/internal/domain/compile"

// Renderer renders a compiled document in one output format.
type Renderer interface {
	// Format is the registry name, e.g. "markdown".
	Format() string
	// Extension is the file extension without the dot.
	Extension() string
	ContentType() string
	Render(doc *compile.Document) ([]byte, error)
}

// Registry resolves renderers by format name.
type Registry interface {
	Get(format string) (Renderer, error)
	Formats() []string
}
