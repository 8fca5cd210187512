// Package config reads the lyphgraph.toml configuration file.
//
// # File format
//
//	[assembly]
//	max_generated = 5000
//	default_link_length = 5.0
//	palette = ["#1f77b4", "#ff7f0e"]
//	validate_schema = true
//
//	[cache]
//	backend = "file"          # none, file or redis
//	dir = "~/.cache/lyphgraph"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "168h"
//	compress = true
//
//	[store]
//	backend = "memory"        # memory or mongo
//	mongo_uri = "mongodb://localhost:27017"
//	database = "lyphgraph"
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 16777216
//	request_timeout = "60s"
//
// Every key is optional; missing keys keep the values of [Default]. The
// environment variables LYPHGRAPH_REDIS_URL, LYPHGRAPH_MONGO_URI and
// LYPHGRAPH_ADDR override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/cache"
	"github.com/matzehuels/lyphgraph/pkg/store"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "lyphgraph.toml"

// EnvConfig names a configuration file to use instead of the default one.
const EnvConfig = "LYPHGRAPH_CONFIG"

// Duration is a time.Duration written as a string such as "90s".
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the complete configuration.
type Config struct {
	Assembly Assembly `toml:"assembly"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Server   Server   `toml:"server"`
}

// Assembly holds engine options.
type Assembly struct {
	MaxGenerated      int      `toml:"max_generated"`
	DefaultLinkLength float64  `toml:"default_link_length"`
	Palette           []string `toml:"palette"`
	ValidateSchema    bool     `toml:"validate_schema"`
}

// Cache selects the result cache.
type Cache struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
	Compress bool     `toml:"compress"`
}

// Store selects the model store of the server.
type Store struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP service.
type Server struct {
	Addr           string   `toml:"addr"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	RequestTimeout Duration `toml:"request_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Assembly: Assembly{
			MaxGenerated:   5000,
			ValidateSchema: true,
		},
		Cache: Cache{
			Backend:  cache.BackendFile,
			TTL:      Duration{cache.TTLGraph},
			Compress: true,
		},
		Store: Store{
			Backend:  store.BackendMemory,
			Database: "lyphgraph",
		},
		Server: Server{
			Addr:           ":8080",
			MaxBodyBytes:   16 << 20,
			RequestTimeout: Duration{time.Minute},
		},
	}
}

// Load reads the file at path on top of the defaults and applies the
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("read config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// Find loads the configuration from explicit, $LYPHGRAPH_CONFIG or the
// default location, in that order. A missing default file yields the
// defaults; a missing explicit file is an error.
func Find(explicit string) (*Config, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		return Load(explicit)
	}
	path, err := DefaultPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Load(path)
		}
	}
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/lyphgraph/lyphgraph.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lyphgraph", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lyphgraph", FileName), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LYPHGRAPH_REDIS_URL"); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv("LYPHGRAPH_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv("LYPHGRAPH_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	var errs []error
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			errs = append(errs, errors.New("cache.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, file, redis", c.Cache.Backend))
	}
	switch c.Store.Backend {
	case store.BackendMemory:
	case store.BackendMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri is required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is not one of memory, mongo", c.Store.Backend))
	}
	if c.Assembly.MaxGenerated < 0 {
		errs = append(errs, errors.New("assembly.max_generated must not be negative"))
	}
	if c.Assembly.DefaultLinkLength < 0 {
		errs = append(errs, errors.New("assembly.default_link_length must not be negative"))
	}
	return errors.Join(errs...)
}

// AssembleOptions converts the assembly section.
func (c *Config) AssembleOptions() assemble.Options {
	return assemble.Options{
		MaxGenerated:      c.Assembly.MaxGenerated,
		DefaultLinkLength: c.Assembly.DefaultLinkLength,
		Palette:           c.Assembly.Palette,
		ValidateSchema:    c.Assembly.ValidateSchema,
	}
}

// CacheConfig converts the cache section. dir replaces an empty cache
// directory.
func (c *Config) CacheConfig(dir string) cache.Config {
	if c.Cache.Dir != "" {
		dir = expandHome(c.Cache.Dir)
	}
	return cache.Config{
		Backend:  c.Cache.Backend,
		Dir:      dir,
		RedisURL: c.Cache.RedisURL,
		Compress: c.Cache.Compress,
	}
}

// StoreConfig converts the store section.
func (c *Config) StoreConfig() store.Config {
	return store.Config{
		Backend:  c.Store.Backend,
		MongoURI: c.Store.MongoURI,
		Database: c.Store.Database,
	}
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
