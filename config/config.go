// Package config loads server configuration from a YAML file, a .env file
// and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/minhhoang1023/openbb-docs-mcp-server/fetch"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Default documentation locations.
const (
	DefaultTOCURL      = "https://docs.openbb.co/workspace/llms.txt"
	DefaultFullTextURL = "https://docs.openbb.co/workspace/llms-full.txt"
)

// Transports accepted by Server.Transport.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config holds the application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Docs   DocsConfig   `yaml:"docs"`
	CORS   CORSConfig   `yaml:"cors"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig describes the MCP server and how it is exposed.
type ServerConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	// Path is the streamable HTTP endpoint.
	Path string `yaml:"path"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// DocsConfig locates the documentation documents.
type DocsConfig struct {
	TOCURL          string        `yaml:"toc_url"`
	FullTextURL     string        `yaml:"full_text_url"`
	TOCTimeout      time.Duration `yaml:"toc_timeout"`
	FullTextTimeout time.Duration `yaml:"full_text_timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	UserAgent       string        `yaml:"user_agent"`
}

// CORSConfig is the cross-origin policy of the HTTP transport.
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAge           int      `yaml:"max_age"`
}

// LogConfig selects the log level (debug, info, warn, error) and format
// (text, json).
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      "OpenBB Docs Server",
			Version:   "1.0.0",
			Transport: TransportHTTP,
			Host:      "0.0.0.0",
			Port:      8000,
			Path:      "/mcp",
		},
		Docs: DocsConfig{
			TOCURL:          DefaultTOCURL,
			FullTextURL:     DefaultFullTextURL,
			TOCTimeout:      fetch.DefaultTOCTimeout,
			FullTextTimeout: fetch.DefaultFullTextTimeout,
			MaxRetries:      2,
			RetryDelay:      fetch.DefaultRetryDelay,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"https://pro.openbb.co",
				"https://pro.openbb.dev",
				"http://localhost:1420",
			},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{"mcp-session-id", "mcp-protocol-version"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists), then .env, then environment variables. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: load: unmarshal %s: %w", path, err)
			}
			slog.Debug("config file loaded", "component", "config", "operation", "load", "path", path)
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("config file not found, using defaults", "component", "config", "operation", "load", "path", path)
		default:
			return nil, fmt.Errorf("config: load: %w", err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Environment variables read by Load.
const (
	EnvPort        = "PORT"
	EnvHost        = "OPENBB_DOCS_HOST"
	EnvTransport   = "OPENBB_DOCS_TRANSPORT"
	EnvTOCURL      = "OPENBB_DOCS_TOC_URL"
	EnvFullTextURL = "OPENBB_DOCS_FULL_TEXT_URL"
	EnvOrigins     = "OPENBB_DOCS_ALLOWED_ORIGINS"
	EnvLogLevel    = "OPENBB_DOCS_LOG_LEVEL"
	EnvLogFormat   = "OPENBB_DOCS_LOG_FORMAT"
)

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvPort, v, ErrInvalidConfig)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvTransport); ok && v != "" {
		c.Server.Transport = v
	}
	if v, ok := lookup(EnvTOCURL); ok && v != "" {
		c.Docs.TOCURL = v
	}
	if v, ok := lookup(EnvFullTextURL); ok && v != "" {
		c.Docs.FullTextURL = v
	}
	if v, ok := lookup(EnvOrigins); ok && v != "" {
		c.CORS.AllowedOrigins = splitList(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var problems []string
	switch c.Server.Transport {
	case TransportHTTP, TransportStdio:
	default:
		problems = append(problems, fmt.Sprintf("server.transport %q (want %s or %s)", c.Server.Transport, TransportHTTP, TransportStdio))
	}
	if c.Server.Transport == TransportHTTP {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, fmt.Sprintf("server.port %d", c.Server.Port))
		}
		if !strings.HasPrefix(c.Server.Path, "/") {
			problems = append(problems, fmt.Sprintf("server.path %q must start with /", c.Server.Path))
		}
	}
	if strings.TrimSpace(c.Server.Name) == "" {
		problems = append(problems, "server.name is empty")
	}
	if strings.TrimSpace(c.Docs.TOCURL) == "" {
		problems = append(problems, "docs.toc_url is empty")
	}
	if strings.TrimSpace(c.Docs.FullTextURL) == "" {
		problems = append(problems, "docs.full_text_url is empty")
	}
	if c.Docs.TOCTimeout <= 0 || c.Docs.FullTextTimeout <= 0 {
		problems = append(problems, "docs timeouts must be positive")
	}
	if c.Docs.MaxRetries < 0 {
		problems = append(problems, "docs.max_retries is negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q (want text or json)", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q", s)
	}
	return level, nil
}
