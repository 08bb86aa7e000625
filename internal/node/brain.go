package node

import (
	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
)

// Brain is the root orchestrator. Its body comes entirely from the
// python-character variation.
var Brain = agent.Blueprint{
	Config: agent.Config{
		ID:        "brain-core",
		Archetype: agent.ArchetypeBrain,
		Purpose:   "The Python vector memory MCP server",
		Includes:  []string{bundle.PythonCharacter},
	},
	Handle: func(*agent.Builder) {},
}
