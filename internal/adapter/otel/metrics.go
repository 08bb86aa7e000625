package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "brainnode"

// Metrics holds all metric instruments.
type Metrics struct {
	Compiles         metric.Int64Counter
	CompileFailures  metric.Int64Counter
	CompileDuration  metric.Float64Histogram
	DocumentsWritten metric.Int64Counter
	CacheHits        metric.Int64Counter
	CacheMisses      metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Compiles, err = meter.Int64Counter("brain.compiles",
		metric.WithDescription("Number of definitions compiled"))
	if err != nil {
		return nil, err
	}

	m.CompileFailures, err = meter.Int64Counter("brain.compile.failures",
		metric.WithDescription("Number of failed compilations"))
	if err != nil {
		return nil, err
	}

	m.CompileDuration, err = meter.Float64Histogram("brain.compile.duration_seconds",
		metric.WithDescription("Compile duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.DocumentsWritten, err = meter.Int64Counter("brain.documents.written",
		metric.WithDescription("Number of output files rewritten"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("brain.render.cache.hits",
		metric.WithDescription("Rendered document cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("brain.render.cache.misses",
		metric.WithDescription("Rendered document cache misses"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
