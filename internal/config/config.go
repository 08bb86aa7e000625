// Package config provides hierarchical configuration loading for the brain
// compiler. Precedence: defaults < YAML file < environment variables < CLI flags.
package config

import (
	"strings"
	"time"
)

// Config holds all runtime configuration.
type Config struct {
	Node     Node     `yaml:"node"`
	Server   Server   `yaml:"server"`
	MCP      MCP      `yaml:"mcp"`
	Cache    Cache    `yaml:"cache"`
	Postgres Postgres `yaml:"postgres"`
	NATS     NATS     `yaml:"nats"`
	OTEL     OTEL     `yaml:"otel"`
	Logging  Logging  `yaml:"logging"`
}

// Node holds compilation and output configuration.
type Node struct {
	OutputDir  string        `yaml:"output_dir"`  // Root of compiled output (default: ".claude")
	BrainFile  string        `yaml:"brain_file"`  // Brain document path relative to output_dir (default: "CLAUDE.md")
	AgentsDir  string        `yaml:"agents_dir"`  // Agent documents directory relative to output_dir (default: "agents")
	BundlesDir string        `yaml:"bundles_dir"` // Custom YAML bundles (default: ".brain/bundles")
	Format     string        `yaml:"format"`      // Default render format (default: "markdown")
	Parallel   int           `yaml:"parallel"`    // Max concurrent compilations (default: 4)
	Debounce   time.Duration `yaml:"debounce"`    // Watch debounce window (default: 250ms)
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	BaseURL    string `yaml:"base_url"` // Public URL used in agent cards; defaults to http://localhost:<port>
}

// PublicURL returns BaseURL or the local address derived from Port.
func (s Server) PublicURL() string {
	if s.BaseURL != "" {
		return strings.TrimRight(s.BaseURL, "/")
	}
	return "http://localhost:" + s.Port
}

// MCP holds MCP server configuration.
type MCP struct {
	Transport string `yaml:"transport"` // "stdio" | "http"
	Addr      string `yaml:"addr"`
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	APIKey    string `yaml:"api_key"` // Bearer token for the http transport; empty disables auth
}

// Cache holds rendered document cache configuration.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	TTL       time.Duration `yaml:"ttl"`
}

// Postgres holds PostgreSQL connection configuration. An empty DSN disables
// publishing to the database.
type Postgres struct {
	DSN             string        `yaml:"dsn"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	HealthCheck     time.Duration `yaml:"health_check"`
}

// NATS holds NATS JetStream configuration. An empty URL disables events.
type NATS struct {
	URL string `yaml:"url"`
}

// OTEL holds OpenTelemetry exporter configuration.
type OTEL struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
	File    string `yaml:"file"` // Optional extra JSON log file
}

// Defaults returns a Config with sensible default values for local use.
func Defaults() Config {
	return Config{
		Node: Node{
			OutputDir:  ".claude",
			BrainFile:  "CLAUDE.md",
			AgentsDir:  "agents",
			BundlesDir: ".brain/bundles",
			Format:     "markdown",
			Parallel:   4,
			Debounce:   250 * time.Millisecond,
		},
		Server: Server{
			Port:       "8085",
			CORSOrigin: "*",
		},
		MCP: MCP{
			Transport: "stdio",
			Addr:      ":8086",
			Name:      "brain",
			Version:   "0.1.0",
		},
		Cache: Cache{
			MaxSizeMB: 16,
			TTL:       10 * time.Minute,
		},
		Postgres: Postgres{
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 10 * time.Minute,
			HealthCheck:     time.Minute,
		},
		OTEL: OTEL{
			Endpoint:    "localhost:4317",
			ServiceName: "brain",
			Insecure:    true,
		},
		Logging: Logging{
			Level:   "info",
			Service: "brain",
		},
	}
}
