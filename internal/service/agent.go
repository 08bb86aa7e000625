package service

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Strob0t/brainnode/internal/domain"
	"github.com/Strob0t/brainnode/internal/domain/agent"
)

type registeredAgent struct {
	def     *agent.Definition
	builtin bool
}

// AgentService manages agent definitions (built-in node blueprints + custom).
type AgentService struct {
	mu     sync.RWMutex
	agents map[string]registeredAgent
}

// NewAgentService builds every blueprint once and registers the results as
// built-ins.
func NewAgentService(blueprints []agent.Blueprint) (*AgentService, error) {
	s := &AgentService{agents: make(map[string]registeredAgent, len(blueprints))}
	for i := range blueprints {
		def, err := blueprints[i].Build()
		if err != nil {
			return nil, err
		}
		if _, dup := s.agents[def.ID]; dup {
			return nil, fmt.Errorf("%w: agent %q defined twice", domain.ErrConflict, def.ID)
		}
		if def.Archetype == agent.ArchetypeBrain {
			if brain := s.brainLocked(); brain != "" {
				return nil, fmt.Errorf("%w: brains %q and %q", domain.ErrConflict, brain, def.ID)
			}
		}
		s.agents[def.ID] = registeredAgent{def: def, builtin: true}
	}
	return s, nil
}

// List returns all definitions, brain archetypes first, then by ID.
func (s *AgentService) List() []*agent.Definition {
	s.mu.RLock()
	result := make([]*agent.Definition, 0, len(s.agents))
	for _, a := range s.agents {
		result = append(result, a.def)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		bi, bj := result[i].Archetype == agent.ArchetypeBrain, result[j].Archetype == agent.ArchetypeBrain
		if bi != bj {
			return bi
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// IDs returns all definition IDs in List order.
func (s *AgentService) IDs() []string {
	defs := s.List()
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

// Get returns a definition by ID.
func (s *AgentService) Get(id string) (*agent.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", id, domain.ErrNotFound)
	}
	return a.def, nil
}

// Register adds a custom definition. Built-in definitions cannot be
// overwritten, and the node holds a single brain.
func (s *AgentService) Register(def *agent.Definition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validate agent: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.agents[def.ID]; ok && existing.builtin {
		return fmt.Errorf("%w: cannot overwrite built-in agent %q", domain.ErrConflict, def.ID)
	}
	if def.Archetype == agent.ArchetypeBrain {
		if brain := s.brainLocked(); brain != "" && brain != def.ID {
			return fmt.Errorf("%w: brain already defined as %q", domain.ErrConflict, brain)
		}
	}
	s.agents[def.ID] = registeredAgent{def: def.Clone()}
	return nil
}

// brainLocked returns the ID of the registered brain, if any.
func (s *AgentService) brainLocked() string {
	for id, a := range s.agents {
		if a.def.Archetype == agent.ArchetypeBrain {
			return id
		}
	}
	return ""
}

// IsBuiltin reports whether id names a built-in definition.
func (s *AgentService) IsBuiltin(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agents[id].builtin
}
