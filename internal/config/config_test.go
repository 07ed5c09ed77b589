package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil, "empty")
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "root:password@tcp(127.0.0.1:3306)/stockdesk?charset=utf8mb4&loc=Local&parseTime=true", cfg.DSN)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, defaultDraftTTL, cfg.Drafts.TTL)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit.MaxPerSecond)
}

func TestParseOverrides(t *testing.T) {
	content := []byte(`
port: 9000
env: Production
database:
  host: db.internal
  port: 3307
  username: shop
  password: s3cret
  db_name: shop
  params:
    timeout: 5s
redis:
  host: cache.internal
  db: 2
  tls: true
cors_allowed_origins: [" https://shop.example.com ", ""]
tz: Europe/Berlin
rate_limit:
  max_per_second: 0
drafts:
  ttl: 30m
dashboard:
  cache_ttl: 1m
`)
	cfg, err := Parse(content, "inline")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "shop:s3cret@tcp(db.internal:3307)/shop?charset=utf8mb4&loc=Local&parseTime=true&timeout=5s", cfg.DSN)
	assert.Equal(t, "rediss://cache.internal:6379/2", cfg.RedisURL)
	assert.Equal(t, []string{"https://shop.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, 0, cfg.RateLimit.MaxPerSecond)
	assert.Equal(t, 30*time.Minute, cfg.Drafts.TTL)
	assert.Equal(t, time.Minute, cfg.Dashboard.CacheTTL)
}

func TestParseExplicitDSNWins(t *testing.T) {
	cfg, err := Parse([]byte("dsn: app:pw@tcp(10.0.0.5:3306)/inventory?parseTime=true\nredis_url: 10.0.0.6:6379/1\n"), "inline")
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(10.0.0.5:3306)/inventory?parseTime=true", cfg.DSN)
	assert.Equal(t, "redis://10.0.0.6:6379/1", cfg.RedisURL)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "prot: 80\n",
		"port":         "port: 70000\n",
		"redis db":     "redis:\n  db: -1\n",
		"draft ttl":    "drafts:\n  ttl: soon\n",
		"zero ttl":     "drafts:\n  ttl: 0s\n",
		"bad dsn":      "dsn: not a dsn\n",
		"negative rps": "rate_limit:\n  max_per_second: -5\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content), "inline")
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8181\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLogDirResolvesAgainstHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogDir())

	cfg.Paths.Logs = "var/log"
	assert.Equal(t, filepath.Join(home, "var", "log"), cfg.LogDir())

	abs := filepath.Join(t.TempDir(), "abs")
	cfg.Paths.Logs = abs
	assert.Equal(t, abs, cfg.LogDir())
}
