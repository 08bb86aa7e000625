package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	brainmcp "github.com/Strob0t/brainnode/internal/adapter/mcp"
)

func (c *cli) runMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	transport := fs.String("transport", c.cfg.MCP.Transport, "stdio or http")
	addr := fs.String("addr", c.cfg.MCP.Addr, "listen address for the http transport")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := c.newApp(ctx, appOptions{cached: true})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := brainmcp.NewServer(brainmcp.ServerConfig{
		Addr:          *addr,
		Name:          c.cfg.MCP.Name,
		Version:       c.cfg.MCP.Version,
		APIKey:        c.cfg.MCP.APIKey,
		DefaultFormat: c.cfg.Node.Format,
	}, brainmcp.ServerDeps{
		Agents:   a.agents,
		Bundles:  a.bundles,
		Compiler: a.compiler,
		Render:   a.render,
	})

	switch *transport {
	case "stdio":
		return srv.ServeStdio(ctx, os.Stdin, c.stdout)
	case "http":
		if err := srv.Start(); err != nil {
			return err
		}
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdown)
		defer cancel()
		return srv.Stop(shutdownCtx)
	default:
		return fmt.Errorf("unknown mcp transport %q", *transport)
	}
}
