package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tilestorm/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TILESTORM_"

// LogLevels lists the accepted logging.level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config holds the tilestorm settings.
type Config struct {
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
	Map     MapConfig     `toml:"map"`
	Script  ScriptConfig  `toml:"script"`
}

// HistoryConfig controls the undo history.
type HistoryConfig struct {
	// Capacity is the maximum number of undo steps. Zero disables history.
	Capacity int `toml:"capacity"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `toml:"level"`
}

// MapConfig holds the defaults for new maps.
type MapConfig struct {
	Rows       int `toml:"rows"`
	Columns    int `toml:"columns"`
	TileWidth  int `toml:"tileWidth"`
	TileHeight int `toml:"tileHeight"`
}

// ScriptConfig controls the Lua console.
type ScriptConfig struct {
	// Timeout bounds the run time of a single script or console line,
	// as a duration string. "0s" disables the limit.
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns the parsed script timeout, or zero if it is invalid.
func (s ScriptConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		History: HistoryConfig{Capacity: 100},
		Logging: LoggingConfig{Level: "info"},
		Map: MapConfig{
			Rows:       5,
			Columns:    5,
			TileWidth:  32,
			TileHeight: 32,
		},
		Script: ScriptConfig{Timeout: "5s"},
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tilestorm", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tilestorm", "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment. An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	return LoadFS(loader.OSFS{}, path)
}

// LoadFS is Load reading files from fsys.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := loader.NewTOMLLoader(fsys).Load(path)
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, file)
	}

	env, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return nil, err
	}
	merged = loader.DeepMerge(merged, env)

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap converts a Config to its nested map form.
func toMap(cfg Config) (map[string]any, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return loader.Parse("<defaults>", data)
}

// fromMap decodes a merged map into a Config.
func fromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting and returns all violations joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, value any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value})
		}
	}

	check(c.History.Capacity >= 0, "history.capacity", "must not be negative", c.History.Capacity)
	check(slices.Contains(LogLevels, c.Logging.Level), "logging.level", "must be debug, info, warn or error", c.Logging.Level)
	check(c.Map.Rows >= 1, "map.rows", "must be at least 1", c.Map.Rows)
	check(c.Map.Columns >= 1, "map.columns", "must be at least 1", c.Map.Columns)
	check(c.Map.TileWidth >= 1, "map.tileWidth", "must be at least 1", c.Map.TileWidth)
	check(c.Map.TileHeight >= 1, "map.tileHeight", "must be at least 1", c.Map.TileHeight)
	d, err := time.ParseDuration(c.Script.Timeout)
	check(err == nil && d >= 0, "script.timeout", "must be a non-negative duration", c.Script.Timeout)

	return errors.Join(errs...)
}
