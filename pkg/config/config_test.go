package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lyphgraph/pkg/cache"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
[assembly]
max_generated = 100
palette = ["#000000"]

[cache]
backend = "redis"
redis_url = "redis://cache:6379/1"
ttl = "1h"

[server]
addr = ":9090"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Assembly.MaxGenerated)
	assert.True(t, cfg.Assembly.ValidateSchema, "unset keys keep defaults")
	assert.Equal(t, []string{"#000000"}, cfg.Assembly.Palette)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Duration)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeout.Duration)

	opts := cfg.AssembleOptions()
	assert.Equal(t, 100, opts.MaxGenerated)
	assert.True(t, opts.ValidateSchema)

	cc := cfg.CacheConfig("/tmp/default")
	assert.Equal(t, cache.Config{Backend: "redis", Dir: "/tmp/default", RedisURL: "redis://cache:6379/1", Compress: true}, cc)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[assembly\n"},
		{"unknown key", "[cache]\nbackend = \"file\"\ncolour = 1\n"},
		{"bad duration", "[cache]\nttl = \"soon\"\n"},
		{"redis without url", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n"},
		{"unknown backend", "[store]\nbackend = \"sqlite\"\n"},
		{"negative cap", "[assembly]\nmax_generated = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LYPHGRAPH_REDIS_URL", "redis://env:6379/0")
	t.Setenv("LYPHGRAPH_ADDR", ":7070")
	cfg, err := Load(write(t, "[cache]\nbackend = \"redis\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "redis://env:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestFind(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvConfig, "")

	cfg, err := Find("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := write(t, "[server]\naddr = \":1234\"\n")
	t.Setenv(EnvConfig, path)
	cfg, err = Find("")
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.Server.Addr)

	_, err = Find(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cache"), expandHome("~/cache"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
