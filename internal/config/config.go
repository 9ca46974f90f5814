// Package config defines the application configuration model and its YAML
// loader. The model is the single source of truth for the app and cmd
// packages: endpoint selection per chain, signing identity, audit
// database location, and logging all come from here.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	// Networks maps a chain ID to its endpoint configuration. Steps
	// declaring a chain ID outside this map cannot execute.
	Networks map[uint64]Network `yaml:"networks"`
	// Sender configures the signing identity for raw and method steps.
	Sender Sender `yaml:"sender"`
	// HistoryDB is the path of the SQLite audit log. Empty disables
	// audit recording.
	HistoryDB string `yaml:"history_db"`
	Log       Log    `yaml:"log"`
}

// Network is one chain endpoint.
type Network struct {
	// Name is a human label for log lines, e.g. "mainnet".
	Name   string `yaml:"name"`
	RPCURL string `yaml:"rpc_url"`
}

// Sender holds the signing identity. The private key itself never
// appears in the file; KeyEnv names the environment variable that
// carries the hex-encoded key.
type Sender struct {
	KeyEnv string `yaml:"key_env"`
}

// Log configures the application logger.
type Log struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string `yaml:"level"`
	// Format is "text" or "json". Empty means text.
	Format string `yaml:"format"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Networks) == 0 {
		return fmt.Errorf("no networks configured")
	}
	for id, n := range c.Networks {
		if n.RPCURL == "" {
			return fmt.Errorf("network %d: rpc_url is required", id)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: must be debug, info, warn, or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// PrivateKey resolves the sender's key from the environment. It returns
// empty without error when no key env is configured; execution of
// transaction steps then fails at signing time, while read-only use
// keeps working.
func (c *Config) PrivateKey() (string, error) {
	if c.Sender.KeyEnv == "" {
		return "", nil
	}
	key, ok := os.LookupEnv(c.Sender.KeyEnv)
	if !ok {
		return "", fmt.Errorf("sender key: environment variable %s is not set", c.Sender.KeyEnv)
	}
	return key, nil
}
