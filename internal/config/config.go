// Package config loads codescope's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/codescope/config.toml (or
// ~/.config/codescope/config.toml) unless a path is given explicitly.
// Missing keys keep their defaults; command-line flags override the file.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codescope/pkg/dataset"
	"github.com/matzehuels/codescope/pkg/errors"
	"github.com/matzehuels/codescope/pkg/graphview"
)

const appName = "codescope"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds codescope configuration.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Graph  GraphConfig  `toml:"graph"`
}

// DataConfig selects where the code-data document comes from.
type DataConfig struct {
	// Source is a file path, an http(s) URL or a mongodb:// URI.
	Source  string            `toml:"source"`
	Headers map[string]string `toml:"headers"`
	Mongo   MongoConfig       `toml:"mongo"`
}

// MongoConfig configures the MongoDB source. The URI comes from
// DataConfig.Source.
type MongoConfig struct {
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	SortField  string        `toml:"sort_field"`
	Field      string        `toml:"field"`
	Timeout    time.Duration `toml:"timeout"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	Metrics         bool          `toml:"metrics"`
}

// CacheConfig controls layout and artifact caching.
type CacheConfig struct {
	Backend  string `toml:"backend"` // "file", "redis", "none"
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	// Prefix namespaces keys when several deployments share a backend.
	Prefix string `toml:"prefix"`
}

// GraphConfig holds graph view defaults.
type GraphConfig struct {
	Kind      string `toml:"kind"`
	Direction string `toml:"direction"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Mongo: MongoConfig{
				Database:   dataset.DefaultMongoDatabase,
				Collection: dataset.DefaultMongoCollection,
				SortField:  dataset.DefaultMongoSortField,
				Timeout:    dataset.DefaultMongoTimeout,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Metrics:         true,
		},
		Cache: CacheConfig{Backend: CacheFile},
		Graph: GraphConfig{Kind: string(dataset.KindClass), Direction: string(graphview.DefaultDirection)},
	}
}

// Dir returns the codescope config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path over the defaults and validates the
// result. An empty path means [DefaultPath], which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case os.IsNotExist(err) && !explicit:
		return cfg, nil
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be file, redis or none", c.Cache.Backend)
	}
	if _, err := dataset.ParseKind(c.Graph.Kind); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "graph.kind")
	}
	if _, err := graphview.ParseDirection(c.Graph.Direction); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "graph.direction")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr must not be empty")
	}
	if c.Data.Mongo.Timeout < 0 || c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeouts must not be negative")
	}
	return nil
}

// MongoOptions converts the mongo section for [dataset.NewSource].
func (c *Config) MongoOptions() dataset.MongoOptions {
	m := c.Data.Mongo
	return dataset.MongoOptions{
		Database:   m.Database,
		Collection: m.Collection,
		SortField:  m.SortField,
		Field:      m.Field,
		Timeout:    m.Timeout,
	}
}

// Source resolves a data location, falling back to data.source when
// location is empty. HTTP sources get the configured headers.
func (c *Config) Source(location string) (dataset.Source, error) {
	if location == "" {
		location = c.Data.Source
	}
	src, err := dataset.NewSource(location, c.MongoOptions())
	if err != nil {
		return nil, err
	}
	if h, ok := src.(*dataset.HTTPSource); ok && len(c.Data.Headers) > 0 {
		return dataset.NewHTTPSource(h.URL, c.Data.Headers), nil
	}
	return src, nil
}

// Save writes the config to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
