// Package config loads the service's YAML configuration, substituting
// ${VAR} / ${VAR:-default} environment references and applying defaults,
// the way DanDo385-go-edu/minis/38-config-loader-env-yaml and
// .../minis/50-mini-service-all-features/internal/config do it.
package config

import (
	"fmt"
	"math/big"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete process configuration for either the zkp-verifier
// server or the zkp-prover client.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Group     GroupConfig     `yaml:"group"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Session   SessionConfig   `yaml:"session"`
	Client    ClientConfig    `yaml:"client"`
}

// ServerConfig holds the RPC HTTP server's listen address and timeouts.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// GroupConfig holds the Chaum-Pedersen group parameters as decimal
// strings; ParseParams converts them. Defaults to p=2^255-19, g=5, h=3
// when left blank (see ApplyDefaults).
type GroupConfig struct {
	P string `yaml:"p"`
	G string `yaml:"g"`
	H string `yaml:"h"`
}

// ParseParams parses the configured decimal strings into big.Ints.
func (g GroupConfig) ParseParams() (p, gen, h *big.Int, err error) {
	p, ok := new(big.Int).SetString(g.P, 10)
	if !ok {
		return nil, nil, nil, fmt.Errorf("config: group.p %q is not a valid decimal integer", g.P)
	}
	gen, ok = new(big.Int).SetString(g.G, 10)
	if !ok {
		return nil, nil, nil, fmt.Errorf("config: group.g %q is not a valid decimal integer", g.G)
	}
	h, ok = new(big.Int).SetString(g.H, 10)
	if !ok {
		return nil, nil, nil, fmt.Errorf("config: group.h %q is not a valid decimal integer", g.H)
	}
	return p, gen, h, nil
}

// LoggingConfig selects zerolog's level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RateLimitConfig bounds the RPC surface's transport-edge token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// SessionConfig controls how session_id tokens are signed and how long
// they remain valid.
type SessionConfig struct {
	SigningKey string        `yaml:"signing_key"`
	TTL        time.Duration `yaml:"ttl"`
}

// ClientConfig controls how the prover CLI locates the verifier: a
// Docker-network hostname versus a loopback address, selected by the
// presence of an environment variable (spec.md §6's one environment
// input).
type ClientConfig struct {
	DockerAddr    string `yaml:"docker_addr"`
	LoopbackAddr  string `yaml:"loopback_addr"`
	DockerModeEnv string `yaml:"docker_mode_env"`
}

// Addr resolves the verifier's address for the prover to dial, following
// original_source's connect_to_zkp_server: use DockerAddr iff the
// DockerModeEnv variable is set (to any value), else LoopbackAddr.
func (c ClientConfig) Addr() string {
	if _, set := os.LookupEnv(c.DockerModeEnv); set {
		return c.DockerAddr
	}
	return c.LoopbackAddr
}

var envPattern = regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with
// environment variable values, leaving unmatched references untouched.
func substituteEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		name, fallback := parts[1], parts[3]

		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		if fallback != "" {
			return fallback
		}
		return match
	})
}

// Load reads configPath, substitutes environment variables, applies
// defaults, and validates the result.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	substituted := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(substituted), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills in the protocol's standard group parameters and
// common operational defaults for any zero-value field.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = "0.0.0.0:9999"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 5 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.Group.P == "" {
		// 2^255 - 19
		p := new(big.Int).Lsh(big.NewInt(1), 255)
		p.Sub(p, big.NewInt(19))
		c.Group.P = p.String()
	}
	if c.Group.G == "" {
		c.Group.G = "5"
	}
	if c.Group.H == "" {
		c.Group.H = "3"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 50
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 20
	}

	if c.Session.TTL == 0 {
		c.Session.TTL = 15 * time.Minute
	}

	if c.Client.DockerAddr == "" {
		c.Client.DockerAddr = "zkp-verifier:9999"
	}
	if c.Client.LoopbackAddr == "" {
		c.Client.LoopbackAddr = "127.0.0.1:9999"
	}
	if c.Client.DockerModeEnv == "" {
		c.Client.DockerModeEnv = "DOCKER_MODE"
	}
}

// Validate checks that the configuration is self-consistent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, _, _, err := c.Group.ParseParams(); err != nil {
		return err
	}
	if c.Session.SigningKey == "" {
		return fmt.Errorf("session.signing_key is required")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}
