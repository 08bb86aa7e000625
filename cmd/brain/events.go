package main

import (
	"context"
	"flag"
	"fmt"

	bnats "github.com/Strob0t/brainnode/internal/adapter/nats"
	"github.com/Strob0t/brainnode/internal/port/messagequeue"
)

func (c *cli) runEvents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	subject := fs.String("subject", messagequeue.SubjectPrefix+".>", "subject filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.cfg.NATS.URL == "" {
		return fmt.Errorf("nats.url is not configured (set NATS_URL)")
	}

	q, err := bnats.Connect(ctx, c.cfg.NATS.URL)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	cancel, err := q.Subscribe(ctx, *subject, func(_ context.Context, subj string, data []byte) error {
		_, err := fmt.Fprintf(c.stdout, "%s %s\n", subj, data)
		return err
	})
	if err != nil {
		return err
	}
	defer cancel()

	<-ctx.Done()
	return nil
}
