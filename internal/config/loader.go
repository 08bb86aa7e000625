package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "brain.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// CLIFlags holds global command-line overrides. Nil fields were not set.
type CLIFlags struct {
	ConfigPath *string
	LogLevel   *string
	OutputDir  *string
	Format     *string
	Port       *string
}

// ParseFlags parses global flags from args. Positional arguments after the
// flags are returned untouched.
func ParseFlags(args []string) (CLIFlags, []string, error) {
	fs := flag.NewFlagSet("brain", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", DefaultConfigFile, "path to YAML config")
	fs.StringVar(configPath, "c", DefaultConfigFile, "path to YAML config (shorthand)")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	outputDir := fs.String("out", "", "output directory")
	format := fs.String("format", "", "render format")
	port := fs.String("port", "", "HTTP port")
	fs.StringVar(port, "p", "", "HTTP port (shorthand)")

	if err := fs.Parse(args); err != nil {
		return CLIFlags{}, nil, err
	}

	var flags CLIFlags
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config", "c":
			flags.ConfigPath = configPath
		case "log-level":
			flags.LogLevel = logLevel
		case "out":
			flags.OutputDir = outputDir
		case "format":
			flags.Format = format
		case "port", "p":
			flags.Port = port
		}
	})
	return flags, fs.Args(), nil
}

// LoadWithCLI loads configuration from the YAML path named by flags (or the
// default), overlays ENV and then the CLI flags. It returns the config and the
// resolved YAML path.
func LoadWithCLI(flags CLIFlags) (*Config, string, error) {
	path := DefaultConfigFile
	if flags.ConfigPath != nil {
		path = *flags.ConfigPath
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, path); err != nil {
		return nil, "", fmt.Errorf("config yaml: %w", err)
	}
	loadEnv(&cfg)
	applyCLI(&cfg, flags)

	if err := validate(&cfg); err != nil {
		return nil, "", fmt.Errorf("config validate: %w", err)
	}
	return &cfg, path, nil
}

func applyCLI(cfg *Config, flags CLIFlags) {
	if flags.LogLevel != nil {
		cfg.Logging.Level = *flags.LogLevel
	}
	if flags.OutputDir != nil {
		cfg.Node.OutputDir = *flags.OutputDir
	}
	if flags.Format != nil {
		cfg.Node.Format = *flags.Format
	}
	if flags.Port != nil {
		cfg.Server.Port = *flags.Port
	}
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Node.OutputDir, "BRAIN_OUTPUT_DIR")
	setString(&cfg.Node.BrainFile, "BRAIN_BRAIN_FILE")
	setString(&cfg.Node.AgentsDir, "BRAIN_AGENTS_DIR")
	setString(&cfg.Node.BundlesDir, "BRAIN_BUNDLES_DIR")
	setString(&cfg.Node.Format, "BRAIN_FORMAT")
	setInt(&cfg.Node.Parallel, "BRAIN_PARALLEL")
	setDuration(&cfg.Node.Debounce, "BRAIN_DEBOUNCE")

	setString(&cfg.Server.Port, "BRAIN_PORT")
	setString(&cfg.Server.CORSOrigin, "BRAIN_CORS_ORIGIN")
	setString(&cfg.Server.BaseURL, "BRAIN_BASE_URL")

	setString(&cfg.MCP.Transport, "BRAIN_MCP_TRANSPORT")
	setString(&cfg.MCP.Addr, "BRAIN_MCP_ADDR")
	setString(&cfg.MCP.APIKey, "BRAIN_MCP_API_KEY")

	setInt64(&cfg.Cache.MaxSizeMB, "BRAIN_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "BRAIN_CACHE_TTL")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "BRAIN_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "BRAIN_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "BRAIN_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "BRAIN_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "BRAIN_PG_HEALTH_CHECK")

	setString(&cfg.NATS.URL, "NATS_URL")

	setBool(&cfg.OTEL.Enabled, "BRAIN_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setBool(&cfg.OTEL.Insecure, "BRAIN_OTEL_INSECURE")

	setString(&cfg.Logging.Level, "BRAIN_LOG_LEVEL")
	setString(&cfg.Logging.Service, "BRAIN_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "BRAIN_LOG_ASYNC")
	setString(&cfg.Logging.File, "BRAIN_LOG_FILE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Node.OutputDir == "" {
		return errors.New("node.output_dir is required")
	}
	if cfg.Node.BrainFile == "" {
		return errors.New("node.brain_file is required")
	}
	if cfg.Node.AgentsDir == "" {
		return errors.New("node.agents_dir is required")
	}
	if cfg.Node.Parallel < 1 {
		return errors.New("node.parallel must be >= 1")
	}
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	switch cfg.MCP.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("mcp.transport must be stdio or http, got %q", cfg.MCP.Transport)
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	if cfg.Postgres.DSN != "" && cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
