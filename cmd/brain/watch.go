package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Strob0t/brainnode/internal/adapter/watch"
	"github.com/Strob0t/brainnode/internal/config"
	"github.com/Strob0t/brainnode/internal/service"
)

func (c *cli) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.connectInfra(ctx, false)
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := c.newApp(ctx, appOptions{telemetry: true, cached: true})
	if err != nil {
		return err
	}
	defer a.Close()

	builder := a.builder
	if in.publisher != nil {
		a.compiler.SetBroadcaster(in.publisher)
		builder = service.NewBuildService(a.compiler, a.output, in.publisher)
	}
	reload := service.NewReloadService(a.bundles, builder, c.cfg.Node.Format)
	if in.publisher != nil {
		reload.SetNotifier(in.publisher)
	}

	// Initial build so the output matches the sources before watching.
	res, err := builder.Build(ctx, c.cfg.Node.Format)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "compiled %d documents, %d changed; watching %s\n", len(res.Documents), res.Changed(), c.cfg.Node.BundlesDir)

	return c.watchLoop(ctx, reload)
}

// watchLoop watches the bundle directory and the config file and feeds
// changes into reload until ctx is done.
func (c *cli) watchLoop(ctx context.Context, reload *service.ReloadService) error {
	if _, err := os.Stat(c.cfgPath); err == nil {
		reload.SetConfigHolder(config.NewHolder(c.cfg, c.cfgPath))
	}

	w, err := watch.New(c.cfg.Node.Debounce, func(ctx context.Context, paths []string) {
		if _, err := reload.Rebuild(ctx, paths); err != nil {
			slog.ErrorContext(ctx, "rebuild failed", "error", err, "trigger", paths)
		}
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if c.cfg.Node.BundlesDir != "" {
		if err := w.AddDir(c.cfg.Node.BundlesDir); err != nil {
			return err
		}
	}
	if _, err := os.Stat(c.cfgPath); err == nil {
		if err := w.AddFile(c.cfgPath); err != nil {
			return err
		}
	}
	slog.Info("watching sources", "bundles_dir", c.cfg.Node.BundlesDir, "config", c.cfgPath, "debounce", c.cfg.Node.Debounce)
	return w.Run(ctx)
}
