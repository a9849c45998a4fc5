// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Default parser preference for requests that omit one.
	Parser string `envconfig:"PYSYM_PARSER" yaml:"parser"`

	// Daemon socket path. Empty means derive from the state directory.
	SocketPath string `envconfig:"PYSYM_SOCKET" yaml:"socket_path"`

	// Request counter database path. Empty means <state dir>/pysym.db.
	DBPath string `envconfig:"PYSYM_DB" yaml:"db_path"`

	// Extra directories searched for compiled grammar libraries.
	GrammarPaths []string `envconfig:"PYSYM_GRAMMAR_PATHS" yaml:"grammar_paths"`

	// Largest accepted request line, in bytes.
	MaxRequestBytes int `envconfig:"PYSYM_MAX_REQUEST_BYTES" yaml:"max_request_bytes"`
}

// StateDir returns the pysym state directory: $PYSYM_HOME if set,
// otherwise ~/.pysym.
func StateDir() string {
	if dir := os.Getenv("PYSYM_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pysym"
	}
	return filepath.Join(home, ".pysym")
}

// DefaultPath returns the default config file location under the state dir.
func DefaultPath() string {
	return filepath.Join(StateDir(), "config.yml")
}

// Load loads configuration from an optional YAML file plus environment
// variables. Priority: env > file > defaults. A missing file at the
// default path is fine; an explicitly named file must exist.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	path := configPath
	if path == "" {
		path = os.Getenv("PYSYM_CONFIG")
	}
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	if err := loadFromFile(cfg, path); err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func setDefaults(cfg *Config) {
	cfg.Parser = "auto"
	cfg.MaxRequestBytes = 1024 * 1024
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	validParsers := map[string]bool{"auto": true, "treesitter": true, "pyscan": true}
	if !validParsers[c.Parser] {
		errs = append(errs, fmt.Sprintf("invalid parser: %s (must be auto, treesitter, or pyscan)", c.Parser))
	}

	if c.MaxRequestBytes < 1024 {
		errs = append(errs, "max_request_bytes must be at least 1024")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ResolvedDBPath returns the counter database path, defaulting under the
// state directory.
func (c *Config) ResolvedDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(StateDir(), "pysym.db")
}
