package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/brainnode/internal/adapter/render"
	"github.com/Strob0t/brainnode/internal/adapter/ristretto"
	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/node"
	"github.com/Strob0t/brainnode/internal/port/cache"
	"github.com/Strob0t/brainnode/internal/service"
)

// app holds the core services every subcommand needs.
type app struct {
	agents   *service.AgentService
	bundles  *service.BundleService
	compiler *service.CompileService
	render   *service.RenderService
	output   *service.OutputService
	builder  *service.BuildService

	shutdown []func(context.Context) error
}

// appOptions tunes newApp for long-running commands.
type appOptions struct {
	telemetry bool // install OTLP exporters and metric instruments
	cached    bool // cache rendered output in process
	// cache replaces the in-process render cache, e.g. with a tiered cache.
	cache cache.Cache
}

func (c *cli) newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{}

	var metrics *botel.Metrics
	if opts.telemetry {
		shutdown, err := botel.Init(ctx, c.cfg.OTEL, version)
		if err != nil {
			return nil, fmt.Errorf("otel: %w", err)
		}
		a.shutdown = append(a.shutdown, shutdown)
		if metrics, err = botel.NewMetrics(); err != nil {
			return nil, fmt.Errorf("otel metrics: %w", err)
		}
	}

	agents, err := service.NewAgentService(node.Blueprints())
	if err != nil {
		return nil, fmt.Errorf("agents: %w", err)
	}
	bundles, err := service.NewBundleService(c.cfg.Node.BundlesDir)
	if err != nil {
		return nil, fmt.Errorf("bundles: %w", err)
	}

	renderCache := opts.cache
	if renderCache == nil && opts.cached {
		l1, err := ristretto.New(c.cfg.Cache.MaxSizeMB)
		if err != nil {
			return nil, fmt.Errorf("render cache: %w", err)
		}
		a.shutdown = append(a.shutdown, func(context.Context) error { l1.Close(); return nil })
		renderCache = l1
	}

	a.agents = agents
	a.bundles = bundles
	a.compiler = service.NewCompileService(agents, bundles, c.cfg.Node.Parallel)
	a.render = service.NewRenderService(render.Default(c.cfg.Server.PublicURL(), version), renderCache, c.cfg.Cache.TTL)
	a.output = service.NewOutputService(c.cfg.Node, a.render)
	a.builder = service.NewBuildService(a.compiler, a.output, nil)

	if metrics != nil {
		a.compiler.SetMetrics(metrics)
		a.render.SetMetrics(metrics)
		a.output.SetMetrics(metrics)
	}
	return a, nil
}

// Close runs shutdown hooks in reverse order.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			slog.Warn("shutdown hook failed", "error", err)
		}
	}
}
