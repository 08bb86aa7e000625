package bundle

import (
	"fmt"
	"strings"

	"github.com/Strob0t/brainnode/internal/domain"
)

var (
	// ErrUnresolved is returned when an include names an unknown bundle.
	ErrUnresolved = fmt.Errorf("%w: unresolved include", domain.ErrNotFound)

	// ErrCycle is returned when bundles include each other.
	ErrCycle = fmt.Errorf("%w: include cycle", domain.ErrValidation)
)

// Lookup resolves bundles by name.
type Lookup interface {
	Bundle(name string) (*Bundle, bool)
}

// Expand resolves includes depth-first in declaration order. A bundle's own
// includes come before the bundle itself, and every bundle appears at most
// once in the result even when reached through several paths.
func Expand(lookup Lookup, owner string, includes []string) ([]*Bundle, error) {
	e := expander{lookup: lookup, owner: owner, done: make(map[string]bool)}
	for _, name := range includes {
		if err := e.visit(name, nil); err != nil {
			return nil, err
		}
	}
	return e.order, nil
}

type expander struct {
	lookup Lookup
	owner  string
	done   map[string]bool
	order  []*Bundle
}

func (e *expander) visit(name string, path []string) error {
	for _, p := range path {
		if p == name {
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path, name), " -> "))
		}
	}
	if e.done[name] {
		return nil
	}
	b, ok := e.lookup.Bundle(name)
	if !ok {
		requester := e.owner
		if len(path) > 0 {
			requester = path[len(path)-1]
		}
		return fmt.Errorf("%w: %q requested by %s", ErrUnresolved, name, requester)
	}
	path = append(path, name)
	for _, inc := range b.Includes {
		if err := e.visit(inc, path); err != nil {
			return err
		}
	}
	e.done[name] = true
	e.order = append(e.order, b)
	return nil
}

// Map is a Lookup backed by a map.
type Map map[string]*Bundle

// Bundle implements Lookup.
func (m Map) Bundle(name string) (*Bundle, bool) {
	b, ok := m[name]
	return b, ok
}
