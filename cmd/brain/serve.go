package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	brainhttp "github.com/Strob0t/brainnode/internal/adapter/http"
	bnats "github.com/Strob0t/brainnode/internal/adapter/nats"
	"github.com/Strob0t/brainnode/internal/adapter/natskv"
	botel "github.com/Strob0t/brainnode/internal/adapter/otel"
	"github.com/Strob0t/brainnode/internal/adapter/postgres"
	"github.com/Strob0t/brainnode/internal/adapter/ristretto"
	"github.com/Strob0t/brainnode/internal/adapter/tiered"
	"github.com/Strob0t/brainnode/internal/adapter/ws"
	"github.com/Strob0t/brainnode/internal/middleware"
	"github.com/Strob0t/brainnode/internal/port/a2a"
	"github.com/Strob0t/brainnode/internal/port/broadcast"
	"github.com/Strob0t/brainnode/internal/port/cache"
	"github.com/Strob0t/brainnode/internal/resilience"
	"github.com/Strob0t/brainnode/internal/service"
)

const renderCacheBucket = "BRAIN_RENDER"

// infra holds the optional external services a long-running command uses.
type infra struct {
	queue     *bnats.Queue
	publisher *bnats.EventPublisher
	pool      *pgxpool.Pool
}

func (i *infra) Close() {
	if i.queue != nil {
		if err := i.queue.Drain(); err != nil {
			slog.Warn("nats drain failed", "error", err)
		}
	}
	if i.pool != nil {
		i.pool.Close()
	}
}

// connectInfra connects NATS and PostgreSQL when they are configured.
func (c *cli) connectInfra(ctx context.Context, withDB bool) (*infra, error) {
	in := &infra{}
	if c.cfg.NATS.URL != "" {
		q, err := bnats.Connect(ctx, c.cfg.NATS.URL)
		if err != nil {
			return nil, fmt.Errorf("nats: %w", err)
		}
		in.queue = q
		in.publisher = bnats.NewEventPublisher(q, resilience.NewBreaker("nats", 5, 30*time.Second))
	}
	if withDB && c.cfg.Postgres.DSN != "" {
		if err := postgres.RunMigrations(ctx, c.cfg.Postgres.DSN); err != nil {
			in.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, c.cfg.Postgres)
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("postgres: %w", err)
		}
		in.pool = pool
	}
	return in, nil
}

// renderCache builds the render cache: ristretto in process, backed by a
// NATS KV bucket shared between instances when NATS is available.
func (c *cli) renderCache(ctx context.Context, in *infra) (cache.Cache, func(), error) {
	l1, err := ristretto.New(c.cfg.Cache.MaxSizeMB)
	if err != nil {
		return nil, nil, fmt.Errorf("render cache: %w", err)
	}
	if in.queue == nil {
		return l1, l1.Close, nil
	}
	kv, err := in.queue.KeyValue(ctx, renderCacheBucket, c.cfg.Cache.TTL)
	if err != nil {
		slog.Warn("nats kv unavailable, using in-process cache only", "error", err)
		return l1, l1.Close, nil
	}
	return tiered.New(l1, natskv.New(kv), c.cfg.Cache.TTL), l1.Close, nil
}

func (c *cli) runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	watch := fs.Bool("watch", false, "rebuild output when bundles or config change")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in, err := c.connectInfra(ctx, true)
	if err != nil {
		return err
	}
	defer in.Close()

	rc, closeCache, err := c.renderCache(ctx, in)
	if err != nil {
		return err
	}
	defer closeCache()

	a, err := c.newApp(ctx, appOptions{telemetry: true, cache: rc})
	if err != nil {
		return err
	}
	defer a.Close()

	hub := ws.NewHub(c.cfg.Server.CORSOrigin)
	defer hub.Close()
	events := broadcast.Multi{hub}
	if in.publisher != nil {
		events = append(events, in.publisher)
	}
	a.compiler.SetBroadcaster(events)
	builder := service.NewBuildService(a.compiler, a.output, events)

	handlers := &brainhttp.Handlers{
		Agents:        a.agents,
		Bundles:       a.bundles,
		Compiler:      a.compiler,
		Render:        a.render,
		Builder:       builder,
		DefaultFormat: c.cfg.Node.Format,
		Version:       version,
	}
	limiter := middleware.NewRateLimiter(2, 10)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()
	handlers.WriteLimit = limiter.Handler

	checks := map[string]brainhttp.Check{}
	if in.pool != nil {
		handlers.Publish = service.NewPublishService(a.compiler, a.render, postgres.NewStore(in.pool))
		checks["postgres"] = in.pool.Ping
	}
	if in.queue != nil {
		q := in.queue
		checks["nats"] = func(context.Context) error {
			if !q.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}
	}

	r := chi.NewRouter()
	r.Use(brainhttp.CORS(c.cfg.Server.CORSOrigin))
	r.Use(brainhttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(brainhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(botel.HTTPMiddleware(c.cfg.OTEL.ServiceName))

	// Websocket connections outlive the request timeout.
	r.Get("/ws", hub.HandleWS)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		r.Get("/health", brainhttp.Health(version, checks))
		a2a.NewHandler(c.cfg.Server.PublicURL(), version, a.compiler).MountRoutes(r)
		brainhttp.MountRoutes(r, handlers)
	})

	if *watch {
		reload := service.NewReloadService(a.bundles, builder, c.cfg.Node.Format)
		if in.publisher != nil {
			reload.SetNotifier(in.publisher)
		}
		go func() {
			if err := c.watchLoop(ctx, reload); err != nil {
				slog.Error("watcher stopped", "error", err)
			}
		}()
	}

	addr := ":" + c.cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", addr, "base_url", c.cfg.Server.PublicURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
