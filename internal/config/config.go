// Package config loads the process configuration from layered sources:
// built-in defaults, an optional YAML file, and INSIGHTS_-prefixed
// environment variables, in ascending priority.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables this process reads.
const EnvPrefix = "INSIGHTS_"

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "INSIGHTS_CONFIG_PATH"

// DefaultConfigPaths lists where a config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/linkedin-insights/config.yaml",
}

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	LinkedIn LinkedInConfig `koanf:"linkedin"`
	Media    MediaConfig    `koanf:"media"`
	Summary  SummaryConfig  `koanf:"summary"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns the host:port the server binds to.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig locates the sqlite database.
type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

// CacheConfig sizes the in-process caches. The three TTLs cover the three
// cache instances: composed responses, raw provider payloads, and summaries.
type CacheConfig struct {
	Capacity           int           `koanf:"capacity"`
	NumShards          int           `koanf:"num_shards"`
	EvictionPercentage int           `koanf:"eviction_percentage"`
	DefaultTTL         time.Duration `koanf:"default_ttl"`
	RawTTL             time.Duration `koanf:"raw_ttl"`
	SummaryTTL         time.Duration `koanf:"summary_ttl"`
}

// LinkedInConfig holds the upstream provider credentials.
type LinkedInConfig struct {
	BaseURL     string        `koanf:"base_url"`
	AccessToken string        `koanf:"access_token"`
	APIVersion  string        `koanf:"api_version"`
	Timeout     time.Duration `koanf:"timeout"`
}

// MediaConfig controls S3 media cloning. When disabled, media URLs stay
// pointed at the origin.
type MediaConfig struct {
	Enabled bool   `koanf:"enabled"`
	Bucket  string `koanf:"bucket"`
	Region  string `koanf:"region"`
}

// SummaryConfig controls the AI narrative generator. When disabled, the
// deterministic fallback text is always used.
type SummaryConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			DSN: "file:insights.db",
		},
		Cache: CacheConfig{
			Capacity:           10000,
			NumShards:          64,
			EvictionPercentage: 10,
			DefaultTTL:         5 * time.Minute,
			RawTTL:             10 * time.Minute,
			SummaryTTL:         30 * time.Minute,
		},
		LinkedIn: LinkedInConfig{
			BaseURL:     "https://api.linkedin.com/v2",
			AccessToken: "",
			APIVersion:  "202401",
			Timeout:     15 * time.Second,
		},
		Media: MediaConfig{
			Enabled: false,
			Bucket:  "",
			Region:  "us-east-1",
		},
		Summary: SummaryConfig{
			Enabled: false,
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "",
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// INSIGHTS_-prefixed environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// envTransform maps INSIGHTS_SECTION_KEY_NAME to section.key_name. Section
// names are single words, so only the first underscore becomes a separator.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate rejects configurations that cannot produce a working process.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Server.Environment, validation.Required, validation.In("development", "production")),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	if err := validation.ValidateStruct(&c.Database,
		validation.Field(&c.Database.DSN, validation.Required),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.Cache.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.Cache.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
	); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if c.Cache.DefaultTTL <= 0 || c.Cache.RawTTL <= 0 || c.Cache.SummaryTTL <= 0 {
		return fmt.Errorf("cache: ttls must be positive")
	}

	if err := validation.ValidateStruct(&c.LinkedIn,
		validation.Field(&c.LinkedIn.BaseURL, validation.Required),
		validation.Field(&c.LinkedIn.APIVersion, validation.Required),
	); err != nil {
		return fmt.Errorf("linkedin: %w", err)
	}

	if c.Media.Enabled {
		if err := validation.ValidateStruct(&c.Media,
			validation.Field(&c.Media.Bucket, validation.Required),
			validation.Field(&c.Media.Region, validation.Required),
		); err != nil {
			return fmt.Errorf("media: %w", err)
		}
	}

	if c.Summary.Enabled {
		if err := validation.ValidateStruct(&c.Summary,
			validation.Field(&c.Summary.APIKey, validation.Required),
			validation.Field(&c.Summary.Model, validation.Required),
		); err != nil {
			return fmt.Errorf("summary: %w", err)
		}
	}

	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
