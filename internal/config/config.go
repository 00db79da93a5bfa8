package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/histrank/internal/history"
)

// Default config file path.
const DefaultConfigPath = "~/.config/histrank/config.yaml"

// EnvConfigPath names the environment variable that overrides DefaultConfigPath.
const EnvConfigPath = "HISTRANK_CONFIG"

// Database driver names as registered with database/sql.
const (
	DriverCgo    = "sqlite3"
	DriverPureGo = "sqlite"
)

// Config holds all histrank configuration.
type Config struct {
	MinVisits int            `yaml:"min_visits"`
	Database  DatabaseConfig `yaml:"database"`
	Sources   []SourceConfig `yaml:"sources"`
	Logging   LoggingConfig  `yaml:"logging"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Snapshot bool   `yaml:"snapshot"`
}

// SourceConfig describes one browser history database and where its report goes.
type SourceConfig struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Database string `yaml:"database"`
	Output   string `yaml:"output"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML,
// or fails validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration can drive at least one export.
func (c *Config) Validate() error {
	if c.MinVisits < 0 {
		return errors.New("min_visits cannot be negative")
	}

	switch c.Database.Driver {
	case DriverCgo, DriverPureGo:
	default:
		return fmt.Errorf("unknown database driver %q (use %s or %s)", c.Database.Driver, DriverCgo, DriverPureGo)
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}

	if len(c.Sources) == 0 {
		return errors.New("no sources configured")
	}

	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q: duplicate name", s.Name)
		}
		seen[s.Name] = true

		if _, err := history.ParseKind(s.Kind); err != nil {
			return fmt.Errorf("source %q: %w", s.Name, err)
		}
		if s.Database == "" {
			return fmt.Errorf("source %q: database path is required", s.Name)
		}
		if s.Output == "" {
			return fmt.Errorf("source %q: output path is required", s.Name)
		}
	}

	return nil
}

// Source returns the configured source with the given name.
func (c *Config) Source(name string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// SourceNames lists the configured source names in config order.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		names = append(names, s.Name)
	}
	return names
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// ResolvePath picks the config file location: an explicit path wins, then
// $HISTRANK_CONFIG, then DefaultConfigPath.
func ResolvePath(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultConfigPath
	}
	return ExpandPath(path)
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
