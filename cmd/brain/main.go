// Command brain compiles agent definitions into Claude agent documents and
// serves them over HTTP, websocket and MCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Strob0t/brainnode/internal/config"
	"github.com/Strob0t/brainnode/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// cli carries the parsed global configuration and output streams into
// subcommands.
type cli struct {
	cfg     *config.Config
	cfgPath string
	stdout  io.Writer
	stderr  io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags, rest, err := config.ParseFlags(args)
	if err != nil {
		printHelp(stderr)
		return err
	}
	if len(rest) == 0 || rest[0] == "help" || rest[0] == "--help" || rest[0] == "-h" {
		printHelp(stderr)
		return nil
	}
	if rest[0] == "version" {
		_, err := fmt.Fprintf(stdout, "brain %s\n", version)
		return err
	}

	cfg, cfgPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closeLog := logger.NewWithWriter(cfg.Logging, stderr)
	defer closeLog.Close()
	slog.SetDefault(log)

	c := &cli{cfg: cfg, cfgPath: cfgPath, stdout: stdout, stderr: stderr}
	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "compile":
		return c.runCompile(ctx, cmdArgs)
	case "list":
		return c.runList(ctx, cmdArgs)
	case "list:includes":
		return c.runListIncludes(ctx, cmdArgs)
	case "show":
		return c.runShow(ctx, cmdArgs)
	case "watch":
		return c.runWatch(ctx, cmdArgs)
	case "serve":
		return c.runServe(ctx, cmdArgs)
	case "mcp":
		return c.runMCP(ctx, cmdArgs)
	case "publish":
		return c.runPublish(ctx, cmdArgs)
	case "migrate":
		return c.runMigrate(ctx, cmdArgs)
	case "events":
		return c.runEvents(ctx, cmdArgs)
	default:
		printHelp(stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `Usage: brain [global options] <command> [options]

Global options:
  -c, --config PATH   YAML config file (default %s)
  --log-level LEVEL   debug, info, warn or error
  --out DIR           output directory
  --format FORMAT     render format (markdown, json, yaml, toml, a2a)
  -p, --port PORT     HTTP port for serve

Commands:
  compile         Compile agents and write changed documents
  list            List the brain and all agents
  list:includes   List bundles, or the resolved includes of one agent
  show ID         Render one agent to stdout
  watch           Rebuild on bundle or config changes
  serve           Serve the HTTP API, websocket events and agent cards
  mcp             Run the MCP server (stdio or http)
  publish         Store rendered documents in PostgreSQL
  migrate         Apply or roll back database migrations
  events          Print compile events from NATS
  version         Print the version

Examples:
  brain compile
  brain compile -only 'database-*' -format yaml
  brain show database-master
  brain --port 9000 serve -watch
`, config.DefaultConfigFile)
}
