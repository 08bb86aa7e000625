package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Node.OutputDir != ".claude" {
		t.Errorf("expected output_dir .claude, got %s", cfg.Node.OutputDir)
	}
	if cfg.Node.BrainFile != "CLAUDE.md" {
		t.Errorf("expected brain_file CLAUDE.md, got %s", cfg.Node.BrainFile)
	}
	if cfg.Node.Parallel != 4 {
		t.Errorf("expected parallel 4, got %d", cfg.Node.Parallel)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Errorf("expected cache ttl 10m, got %v", cfg.Cache.TTL)
	}
	if cfg.MCP.Transport != "stdio" {
		t.Errorf("expected mcp transport stdio, got %s", cfg.MCP.Transport)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "brain.yaml")

	content := `
node:
  output_dir: "out"
  parallel: 8
server:
  port: "9090"
  cors_origin: "http://example.com"
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Node.OutputDir != "out" {
		t.Errorf("expected output_dir out, got %s", cfg.Node.OutputDir)
	}
	if cfg.Node.Parallel != 8 {
		t.Errorf("expected parallel 8, got %d", cfg.Node.Parallel)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.CORSOrigin != "http://example.com" {
		t.Errorf("expected cors http://example.com, got %s", cfg.Server.CORSOrigin)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.Node.AgentsDir != "agents" {
		t.Errorf("expected default agents_dir, got %s", cfg.Node.AgentsDir)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("BRAIN_PORT", "7070")
	t.Setenv("BRAIN_OUTPUT_DIR", "/tmp/claude")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("BRAIN_PG_MAX_CONNS", "25")
	t.Setenv("BRAIN_LOG_LEVEL", "warn")
	t.Setenv("BRAIN_CACHE_TTL", "1m")
	t.Setenv("BRAIN_OTEL_ENABLED", "true")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Node.OutputDir != "/tmp/claude" {
		t.Errorf("expected output dir /tmp/claude, got %s", cfg.Node.OutputDir)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected test DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.Postgres.MaxConns != 25 {
		t.Errorf("expected max_conns 25, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("expected cache ttl 1m, got %v", cfg.Cache.TTL)
	}
	if !cfg.OTEL.Enabled {
		t.Error("expected otel enabled")
	}
}

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{
			name:   "empty output dir",
			modify: func(c *Config) { c.Node.OutputDir = "" },
			errMsg: "node.output_dir is required",
		},
		{
			name:   "empty brain file",
			modify: func(c *Config) { c.Node.BrainFile = "" },
			errMsg: "node.brain_file is required",
		},
		{
			name:   "empty agents dir",
			modify: func(c *Config) { c.Node.AgentsDir = "" },
			errMsg: "node.agents_dir is required",
		},
		{
			name:   "zero parallel",
			modify: func(c *Config) { c.Node.Parallel = 0 },
			errMsg: "node.parallel must be >= 1",
		},
		{
			name:   "empty port",
			modify: func(c *Config) { c.Server.Port = "" },
			errMsg: "server.port is required",
		},
		{
			name:   "bad transport",
			modify: func(c *Config) { c.MCP.Transport = "sse" },
			errMsg: `mcp.transport must be stdio or http, got "sse"`,
		},
		{
			name:   "zero cache size",
			modify: func(c *Config) { c.Cache.MaxSizeMB = 0 },
			errMsg: "cache.max_size_mb must be >= 1",
		},
		{
			name: "zero max_conns with dsn",
			modify: func(c *Config) {
				c.Postgres.DSN = "postgres://localhost/brain"
				c.Postgres.MaxConns = 0
			},
			errMsg: "postgres.max_conns must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := validate(&cfg)
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.errMsg)
			}
			if err.Error() != tt.errMsg {
				t.Errorf("expected %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	flags, rest, err := ParseFlags([]string{"--log-level", "debug", "--out", "build", "compile", "-only", "db-*"})
	if err != nil {
		t.Fatal(err)
	}

	if flags.LogLevel == nil || *flags.LogLevel != "debug" {
		t.Errorf("expected log-level debug, got %v", flags.LogLevel)
	}
	if flags.OutputDir == nil || *flags.OutputDir != "build" {
		t.Errorf("expected out build, got %v", flags.OutputDir)
	}
	// Unset flags remain nil
	if flags.Format != nil {
		t.Errorf("expected nil Format, got %v", *flags.Format)
	}
	if flags.ConfigPath != nil {
		t.Errorf("expected nil ConfigPath, got %v", *flags.ConfigPath)
	}
	if len(rest) != 3 || rest[0] != "compile" {
		t.Errorf("expected subcommand args preserved, got %v", rest)
	}
}

func TestParseFlagsShorthand(t *testing.T) {
	flags, _, err := ParseFlags([]string{"-p", "7070", "-c", "custom.yaml"})
	if err != nil {
		t.Fatal(err)
	}

	if flags.Port == nil || *flags.Port != "7070" {
		t.Errorf("expected port 7070, got %v", flags.Port)
	}
	if flags.ConfigPath == nil || *flags.ConfigPath != "custom.yaml" {
		t.Errorf("expected config custom.yaml, got %v", flags.ConfigPath)
	}
}

func TestParseFlagsInvalid(t *testing.T) {
	_, _, err := ParseFlags([]string{"--unknown-flag"})
	if err == nil {
		t.Error("expected error for unknown flag, got nil")
	}
}

func TestApplyCLI(t *testing.T) {
	cfg := Defaults()

	logLevel := "error"
	out := "dist"
	format := "json"
	port := "3333"

	applyCLI(&cfg, CLIFlags{
		LogLevel:  &logLevel,
		OutputDir: &out,
		Format:    &format,
		Port:      &port,
	})

	if cfg.Logging.Level != "error" {
		t.Errorf("expected log level error, got %s", cfg.Logging.Level)
	}
	if cfg.Node.OutputDir != "dist" {
		t.Errorf("expected output dir dist, got %s", cfg.Node.OutputDir)
	}
	if cfg.Node.Format != "json" {
		t.Errorf("expected format json, got %s", cfg.Node.Format)
	}
	if cfg.Server.Port != "3333" {
		t.Errorf("expected port 3333, got %s", cfg.Server.Port)
	}
}

func TestApplyCLINilFlags(t *testing.T) {
	cfg := Defaults()
	original := cfg

	// All-nil flags should change nothing.
	applyCLI(&cfg, CLIFlags{})

	if cfg != original {
		t.Errorf("nil flags changed config: %+v", cfg)
	}
}

func TestCLIOverridesEnv(t *testing.T) {
	// CLI flags must win over ENV.
	t.Setenv("BRAIN_OUTPUT_DIR", "from-env")
	t.Setenv("BRAIN_LOG_LEVEL", "warn")

	flags, _, err := ParseFlags([]string{"--out", "from-cli", "--log-level", "error", "-c", filepath.Join(t.TempDir(), "none.yaml")})
	if err != nil {
		t.Fatal(err)
	}

	cfg, _, err := LoadWithCLI(flags)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Node.OutputDir != "from-cli" {
		t.Errorf("expected CLI output dir to override ENV, got %s", cfg.Node.OutputDir)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("expected CLI log-level error to override ENV warn, got %s", cfg.Logging.Level)
	}
}

func TestLoadWithCLICustomConfig(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "custom.yaml")
	content := `
node:
  format: "yaml"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	flags, _, err := ParseFlags([]string{"--config", yamlPath})
	if err != nil {
		t.Fatal(err)
	}

	cfg, resolvedPath, err := LoadWithCLI(flags)
	if err != nil {
		t.Fatal(err)
	}

	if resolvedPath != yamlPath {
		t.Errorf("expected resolved path %s, got %s", yamlPath, resolvedPath)
	}
	if cfg.Node.Format != "yaml" {
		t.Errorf("expected format yaml from custom YAML, got %s", cfg.Node.Format)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		server Server
		want   string
	}{
		{Server{Port: "8085"}, "http://localhost:8085"},
		{Server{Port: "8085", BaseURL: "https://brain.example.com/"}, "https://brain.example.com"},
	}
	for _, tt := range tests {
		if got := tt.server.PublicURL(); got != tt.want {
			t.Errorf("PublicURL(%+v) = %q, want %q", tt.server, got, tt.want)
		}
	}
}
