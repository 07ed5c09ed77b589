package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 8080
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "stockdesk"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0
	defaultRateLimit  = 50
	defaultDraftTTL   = 2 * time.Hour
	defaultDashTTL    = 30 * time.Second
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"`
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	Paths          RuntimePathsConfig    `yaml:"paths"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	Timezone       string                `yaml:"timezone"`
	RateLimit      RateLimitConfig       `yaml:"rate_limit"`
	Drafts         DraftsConfig          `yaml:"drafts"`
	Dashboard      DashboardConfig       `yaml:"dashboard"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TLS      bool   `yaml:"tls"`
}

type RuntimePathsConfig struct {
	Logs string `yaml:"logs"`
}

type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// DraftsConfig controls server-held field group drafts.
type DraftsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type rawAppConfig struct {
	Port           int               `yaml:"port"`
	DSN            string            `yaml:"dsn"`
	DatabaseURL    string            `yaml:"database_url"`
	RedisURL       string            `yaml:"redis_url"`
	Database       rawDatabaseConfig `yaml:"database"`
	Redis          rawRedisConfig    `yaml:"redis"`
	Env            string            `yaml:"env"`
	Paths          rawPathsConfig    `yaml:"paths"`
	LogDir         string            `yaml:"log_dir"`
	AllowedOrigins []string          `yaml:"allowed_origins"`
	CORSOrigins    []string          `yaml:"cors_allowed_origins"`
	Timezone       string            `yaml:"timezone"`
	TZ             string            `yaml:"tz"`
	RateLimit      rawRateLimit      `yaml:"rate_limit"`
	Drafts         rawDrafts         `yaml:"drafts"`
	Dashboard      rawDashboard      `yaml:"dashboard"`
}

type rawDatabaseConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type rawRedisConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       *int   `yaml:"db"`
	TLS      *bool  `yaml:"tls"`
}

type rawPathsConfig struct {
	Logs string `yaml:"logs"`
}

type rawRateLimit struct {
	MaxPerSecond *int `yaml:"max_per_second"`
}

type rawDrafts struct {
	TTL string `yaml:"ttl"`
}

type rawDashboard struct {
	CacheTTL string `yaml:"cache_ttl"`
}

// Load reads and validates the YAML file at configPath. Unknown keys are
// rejected.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}
	return Parse(content, path)
}

// Parse decodes YAML content; source only appears in error messages.
func Parse(content []byte, source string) (*AppConfig, error) {
	cfg := Default()
	raw := rawAppConfig{}
	if len(bytes.TrimSpace(content)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", source, err)
		}
	}

	if err := applyRawAppConfig(&cfg, raw); err != nil {
		return nil, fmt.Errorf("config %q: %w", source, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", source, err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no file overrides a value.
func Default() AppConfig {
	cfg := AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Password:  defaultDBPassword,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		RateLimit: RateLimitConfig{MaxPerSecond: defaultRateLimit},
		Drafts:    DraftsConfig{TTL: defaultDraftTTL},
		Dashboard: DashboardConfig{CacheTTL: defaultDashTTL},
	}
	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	return cfg
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw)
	cfg.Redis = applyRawRedisConfig(cfg.Redis, raw)
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.Paths.Logs); v != "" {
		cfg.Paths.Logs = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.Paths.Logs = v
	}

	switch {
	case raw.AllowedOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.AllowedOrigins)
	case raw.CORSOrigins != nil:
		cfg.AllowedOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	if v := strings.TrimSpace(raw.TZ); v != "" {
		cfg.Timezone = v
	}

	if raw.RateLimit.MaxPerSecond != nil {
		cfg.RateLimit.MaxPerSecond = *raw.RateLimit.MaxPerSecond
	}
	if v := strings.TrimSpace(raw.Drafts.TTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid drafts.ttl %q: %w", v, err)
		}
		cfg.Drafts.TTL = ttl
	}
	if v := strings.TrimSpace(raw.Dashboard.CacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid dashboard.cache_ttl %q: %w", v, err)
		}
		cfg.Dashboard.CacheTTL = ttl
	}

	cfg.DSN = cfg.Database.DSNValue()
	cfg.RedisURL = cfg.Redis.URLValue()
	cfg.Paths.Logs = strings.TrimSpace(cfg.Paths.Logs)
	cfg.Env = normalizeEnv(cfg.Env)
	return nil
}

func applyRawDatabaseConfig(current DatabaseRuntimeConfig, raw rawAppConfig) DatabaseRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Database.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.URL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.DatabaseURL); v != "" {
		cfg.DSN = v
	}
	if v := strings.TrimSpace(raw.Database.Host); v != "" {
		cfg.Host = v
	}
	if raw.Database.Port != 0 {
		cfg.Port = raw.Database.Port
	}
	if v := strings.TrimSpace(raw.Database.User); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Username); v != "" {
		cfg.User = v
	}
	if v := strings.TrimSpace(raw.Database.Password); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(raw.Database.Name); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.DBName); v != "" {
		cfg.Name = v
	}
	if v := strings.TrimSpace(raw.Database.Charset); v != "" {
		cfg.Charset = v
	}
	if raw.Database.ParseTime != nil {
		cfg.ParseTime = *raw.Database.ParseTime
	}
	if v := strings.TrimSpace(raw.Database.Loc); v != "" {
		cfg.Loc = v
	}
	if raw.Database.Params != nil {
		cfg.Params = copyStringMap(raw.Database.Params)
	}

	return normalizeDatabaseConfig(cfg)
}

func applyRawRedisConfig(current RedisRuntimeConfig, raw rawAppConfig) RedisRuntimeConfig {
	cfg := current

	if v := strings.TrimSpace(raw.Redis.URL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.URL = v
	}
	if v := strings.TrimSpace(raw.Redis.Host); v != "" {
		cfg.Host = v
	}
	if raw.Redis.Port != 0 {
		cfg.Port = raw.Redis.Port
	}
	if v := strings.TrimSpace(raw.Redis.Username); v != "" {
		cfg.Username = v
	}
	if v := strings.TrimSpace(raw.Redis.Password); v != "" {
		cfg.Password = v
	}
	if raw.Redis.DB != nil {
		cfg.DB = *raw.Redis.DB
	}
	if raw.Redis.TLS != nil {
		cfg.TLS = *raw.Redis.TLS
	}

	return normalizeRedisConfig(cfg)
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.RateLimit.MaxPerSecond < 0 {
		return fmt.Errorf("invalid rate_limit.max_per_second %d, expected >= 0", c.RateLimit.MaxPerSecond)
	}
	if c.Drafts.TTL <= 0 {
		return fmt.Errorf("invalid drafts.ttl %s, expected > 0", c.Drafts.TTL)
	}
	if c.Dashboard.CacheTTL < 0 {
		return fmt.Errorf("invalid dashboard.cache_ttl %s, expected >= 0", c.Dashboard.CacheTTL)
	}
	if err := validateDSN(c.DSN); err != nil {
		return err
	}
	return nil
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return resolvePath(HomeDir(), "", "logs")
	}
	return resolvePath(HomeDir(), c.Paths.Logs, "logs")
}
