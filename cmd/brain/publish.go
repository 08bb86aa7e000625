package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/Strob0t/brainnode/internal/adapter/postgres"
	"github.com/Strob0t/brainnode/internal/service"
)

const defaultShutdown = 10 * time.Second

var errNoDatabase = errors.New("postgres.dsn is not configured (set DATABASE_URL)")

func (c *cli) runPublish(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", c.cfg.Node.Format, "render format")
	history := fs.Int("history", 0, "list the N most recent published documents instead of publishing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.cfg.Postgres.DSN == "" {
		return errNoDatabase
	}

	in, err := c.connectInfra(ctx, true)
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := c.newApp(ctx, appOptions{telemetry: true})
	if err != nil {
		return err
	}
	defer a.Close()
	if in.publisher != nil {
		a.compiler.SetBroadcaster(in.publisher)
	}

	pub := service.NewPublishService(a.compiler, a.render, postgres.NewStore(in.pool))

	if *history > 0 {
		records, err := pub.History(ctx, *history)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tFORMAT\tFINGERPRINT\tBUILD\tPUBLISHED")
		for i := range records {
			r := &records[i]
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Format, r.Fingerprint[:12], r.BuildID, r.PublishedAt.Format(time.RFC3339))
		}
		return w.Flush()
	}

	res, err := pub.Publish(ctx, *format)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "published build %s: %d saved, %d unchanged\n", res.BuildID, res.Saved, res.Skipped)
	return nil
}

func (c *cli) runMigrate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: brain migrate up|down [-steps n]|version")
	}
	if c.cfg.Postgres.DSN == "" {
		return errNoDatabase
	}
	dsn := c.cfg.Postgres.DSN

	switch args[0] {
	case "up":
		if err := postgres.RunMigrations(ctx, dsn); err != nil {
			return err
		}
	case "down":
		fs := flag.NewFlagSet("migrate down", flag.ContinueOnError)
		fs.SetOutput(c.stderr)
		steps := fs.Int("steps", 1, "number of migrations to roll back")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := postgres.RollbackMigrations(ctx, dsn, *steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown migrate command: %s", args[0])
	}

	v, err := postgres.MigrationVersion(ctx, dsn)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "schema version %d\n", v)
	return nil
}
