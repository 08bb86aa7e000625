package config

import (
	"fmt"
	"sync"
)

// Holder keeps the active Config and reloads it from disk on demand.
// A failed reload leaves the previous config in place.
type Holder struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewHolder wraps an already loaded config and the YAML path it came from.
func NewHolder(cfg *Config, path string) *Holder {
	return &Holder{cfg: cfg, path: path}
}

// Get returns a copy of the current config.
func (h *Holder) Get() Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return *h.cfg
}

// Path returns the YAML path the holder reloads from.
func (h *Holder) Path() string { return h.path }

// Reload re-reads the YAML file and environment.
func (h *Holder) Reload() error {
	cfg, err := LoadFrom(h.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", h.path, err)
	}
	h.mu.Lock()
	h.cfg = cfg
	h.mu.Unlock()
	return nil
}
