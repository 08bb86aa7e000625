package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/config"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/renderer"
)

// WriteResult describes one written (or unchanged) output file.
type WriteResult struct {
	ID      string
	Path    string
	Changed bool
}

// OutputService renders compiled documents and writes them below the
// output directory. Files are only rewritten when their bytes change.
type OutputService struct {
	node    config.Node
	render  *RenderService
	metrics *botel.Metrics
}

// NewOutputService creates an OutputService for the given node layout.
func NewOutputService(node config.Node, render *RenderService) *OutputService {
	return &OutputService{node: node, render: render}
}

// SetMetrics enables the documents-written counter.
func (s *OutputService) SetMetrics(m *botel.Metrics) { s.metrics = m }

// Path returns where doc is written for renderer r. Agents go to
// <output_dir>/<agents_dir>/<id>.<ext>; the brain goes to
// <output_dir>/<brain_file>, with its extension swapped for non-markdown formats.
func (s *OutputService) Path(doc *compile.Document, r renderer.Renderer) string {
	if doc.IsBrain() {
		name := s.node.BrainFile
		if ext := "." + r.Extension(); !strings.EqualFold(filepath.Ext(name), ext) {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + ext
		}
		return filepath.Join(s.node.OutputDir, name)
	}
	return filepath.Join(s.node.OutputDir, s.node.AgentsDir, doc.ID+"."+r.Extension())
}

// Write renders and writes every document in format. It stops at the first error.
func (s *OutputService) Write(ctx context.Context, docs []*compile.Document, format string) ([]WriteResult, error) {
	results := make([]WriteResult, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		data, r, err := s.render.Render(ctx, doc, format)
		if err != nil {
			return results, err
		}

		path := s.Path(doc, r)
		changed, err := writeIfChanged(path, data)
		if err != nil {
			return results, fmt.Errorf("write %s: %w", doc.ID, err)
		}
		if changed {
			slog.InfoContext(ctx, "document written", "id", doc.ID, "path", path)
			if s.metrics != nil {
				s.metrics.DocumentsWritten.Add(ctx, 1, metric.WithAttributes(attribute.String("render.format", r.Format())))
			}
		}
		results = append(results, WriteResult{ID: doc.ID, Path: path, Changed: changed})
	}
	return results, nil
}

// writeIfChanged writes data to path via a temp file and rename, unless the
// file already holds exactly data.
func writeIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // G304: path is built from config
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
