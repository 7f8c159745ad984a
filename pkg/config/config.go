// Package config loads socrata-engine configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for socrata-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the Socrata app token pair) must only come from environment variables.
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Socrata platform configuration
	Socrata SocrataConfig `yaml:"socrata"`

	// Logging configuration
	Log LogConfig `yaml:"log"`

	// Version is set at load time, not from config.
	Version string `yaml:"-"`
}

// ServerConfig holds MCP transport settings.
type ServerConfig struct {
	// Transport selects how the MCP server is exposed: "stdio" (default,
	// for local agent clients) or "http" (streamable HTTP on BindAddr:Port
	// with /healthz and /metrics endpoints).
	Transport string `yaml:"transport" env:"MCP_TRANSPORT" env-default:"stdio"`
	BindAddr  string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port      string `yaml:"port" env:"PORT" env-default:"8141"`
}

// SocrataConfig holds Socrata platform access settings.
type SocrataConfig struct {
	// DomainsStr is a comma-separated allowlist of Socrata domains the
	// server may talk to. Empty means all domains are permitted.
	DomainsStr string `yaml:"domains" env:"SOCRATA_DOMAIN" env-default:""`

	// Domains is parsed from DomainsStr (not from config file).
	Domains []string `yaml:"-"`

	// AppID / AppSecret form the HTTP Basic credential pair. Both must be
	// set for authentication headers to be attached; a lone value is
	// ignored. Secrets - not in YAML.
	AppID     string `yaml:"-" env:"SOCRATA_ID"`
	AppSecret string `yaml:"-" env:"SOCRATA_SECRET"`

	// TimeoutSeconds bounds each remote call. This is a local hardening
	// policy only; there is no retry on timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"SOCRATA_TIMEOUT_SECONDS" env-default:"30"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When no config.yaml exists, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	cfg.Socrata.Domains = parseDomains(cfg.Socrata.DomainsStr)

	switch cfg.Server.Transport {
	case "stdio", "http":
	default:
		return nil, fmt.Errorf("invalid transport %q: must be stdio or http", cfg.Server.Transport)
	}

	return cfg, nil
}

// HasCredentials reports whether both halves of the Basic credential pair
// are configured. Requests go out unauthenticated otherwise.
func (s *SocrataConfig) HasCredentials() bool {
	return s.AppID != "" && s.AppSecret != ""
}

// parseDomains splits the comma-separated allowlist, trimming whitespace
// and dropping empty entries.
func parseDomains(value string) []string {
	if value == "" {
		return nil
	}
	var domains []string
	for _, d := range strings.Split(value, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
