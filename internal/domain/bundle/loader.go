package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/Strob0t/brainnode/internal/domain"
)

// filePattern matches bundle files anywhere below the bundles directory.
const filePattern = "**/*.{yaml,yml}"

// LoadFromFile reads a single Bundle from a YAML file.
func LoadFromFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle file %s: %w", path, err)
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle file %s: %w", path, err)
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate bundle file %s: %w", path, err)
	}

	return &b, nil
}

// LoadFromDirectory reads all .yaml/.yml files below dir, recursively and in
// lexical path order. A missing directory returns no bundles and no error.
func LoadFromDirectory(dir string) ([]Bundle, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bundle directory %s: %w", dir, err)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), filePattern)
	if err != nil {
		return nil, fmt.Errorf("glob bundle directory %s: %w", dir, err)
	}
	sort.Strings(matches)

	bundles := make([]Bundle, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, rel := range matches {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		b, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("%w: bundle %s defined in %s and %s", domain.ErrConflict, b.Name, prev, path)
		}
		seen[b.Name] = path
		bundles = append(bundles, *b)
	}

	return bundles, nil
}
