// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/amaumene/gomovies/internal/constants"
	apperrors "github.com/amaumene/gomovies/internal/errors"
	"github.com/amaumene/gomovies/pkg/security"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
)

// Duration is a time.Duration that reads from strings such as "1s" or "250ms"
// in both JSON and TOML files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Config holds the application configuration.
// It supports loading from JSON or TOML files and environment variables.
type Config struct {
	// TMDB access
	TMDBToken    string `json:"TMDB_API_KEY" toml:"tmdb_api_key"`
	TMDBBaseURL  string `json:"TMDB_BASE_URL" toml:"tmdb_base_url"`
	ImageBaseURL string `json:"IMAGE_BASE_URL" toml:"image_base_url"`
	NoPosterURL  string `json:"NO_POSTER_URL" toml:"no_poster_url"`

	// HTTP server
	Port     string `json:"PORT" toml:"port"`
	LogLevel string `json:"LOG_LEVEL" toml:"log_level"`

	// Trending store
	StoreBackend string `json:"STORE_BACKEND" toml:"store_backend"` // "bolt" or "postgres"
	DatabasePath string `json:"DATABASE_PATH" toml:"database_path"`
	PostgresURL  string `json:"POSTGRES_URL" toml:"postgres_url"`

	// Behaviour
	DebounceDelay  Duration `json:"DEBOUNCE_DELAY" toml:"debounce_delay"`
	RequestTimeout Duration `json:"REQUEST_TIMEOUT" toml:"request_timeout"`
	CacheSize      int      `json:"CACHE_SIZE" toml:"cache_size"`
	CacheTTL       Duration `json:"CACHE_TTL" toml:"cache_ttl"`
	SessionTTL     Duration `json:"SESSION_TTL" toml:"session_ttl"`
	MaxSessions    int      `json:"MAX_SESSIONS" toml:"max_sessions"`
	TrendingLimit  int      `json:"TRENDING_LIMIT" toml:"trending_limit"`
}

// Default returns a configuration populated with default values only.
func Default() *Config {
	return &Config{
		TMDBBaseURL:    constants.DefaultTMDBBaseURL,
		ImageBaseURL:   constants.DefaultImageBaseURL,
		NoPosterURL:    constants.DefaultNoPosterURL,
		Port:           constants.DefaultPort,
		LogLevel:       constants.DefaultLogLevel,
		StoreBackend:   constants.DefaultStoreBackend,
		DatabasePath:   constants.DefaultDatabasePath,
		DebounceDelay:  Duration{constants.DefaultDebounceDelay},
		RequestTimeout: Duration{constants.RequestTimeout},
		CacheSize:      constants.DefaultCacheSize,
		CacheTTL:       Duration{time.Duration(constants.DefaultCacheTTL) * time.Minute},
		SessionTTL:     Duration{constants.DefaultSessionTTL},
		MaxSessions:    constants.DefaultMaxSessions,
		TrendingLimit:  constants.TrendingLimit,
	}
}

// Load reads configuration from an optional file and environment variables.
// Environment variables take precedence over file values. An empty path
// falls back to CONFIG_FILE and then config.json; a missing file is ignored.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	}
	if err := cfg.loadFromFile(path); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, apperrors.NewConfigurationError("failed to load config file "+path, err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, apperrors.NewConfigurationError("failed to read environment", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON or TOML file, chosen by extension.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return toml.Unmarshal(data, c)
	default:
		return json.Unmarshal(data, c)
	}
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	setString(&c.TMDBToken, "TMDB_API_KEY")
	setString(&c.TMDBBaseURL, "TMDB_BASE_URL")
	setString(&c.ImageBaseURL, "IMAGE_BASE_URL")
	setString(&c.NoPosterURL, "NO_POSTER_URL")
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.StoreBackend, "STORE_BACKEND")
	setString(&c.DatabasePath, "DATABASE_PATH")
	setString(&c.PostgresURL, "POSTGRES_URL")

	if v := os.Getenv("DEBOUNCE_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEBOUNCE_MS: %w", err)
		}
		c.DebounceDelay = Duration{time.Duration(ms) * time.Millisecond}
	}

	for key, dst := range map[string]*Duration{
		"REQUEST_TIMEOUT": &c.RequestTimeout,
		"CACHE_TTL":       &c.CacheTTL,
		"SESSION_TTL":     &c.SessionTTL,
	} {
		if v := os.Getenv(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}

	for key, dst := range map[string]*int{
		"CACHE_SIZE":     &c.CacheSize,
		"MAX_SESSIONS":   &c.MaxSessions,
		"TRENDING_LIMIT": &c.TrendingLimit,
	} {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}

	return nil
}

// Validate checks if the configuration is valid.
// Sets default values for missing optional fields.
func (c *Config) Validate() error {
	// The TMDB token is optional here; commands that call TMDB check for it.
	validator := security.NewTokenValidator()
	c.TMDBToken = validator.SanitizeToken(c.TMDBToken)
	if c.TMDBToken != "" && !validator.IsValidTMDBToken(c.TMDBToken) {
		return apperrors.NewConfigurationError("TMDB_API_KEY must be a v4 read access token", nil)
	}

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case "":
		c.StoreBackend = constants.DefaultStoreBackend
	case "bolt":
	case "postgres":
		if c.PostgresURL == "" {
			return apperrors.NewConfigurationError("POSTGRES_URL is required for the postgres backend", nil)
		}
	default:
		return apperrors.NewConfigurationError("unknown store backend: "+c.StoreBackend, nil)
	}

	for name, raw := range map[string]*string{"TMDB_BASE_URL": &c.TMDBBaseURL, "IMAGE_BASE_URL": &c.ImageBaseURL} {
		u, err := url.Parse(*raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return apperrors.NewConfigurationError(name+" must be an absolute URL", err)
		}
		*raw = strings.TrimRight(*raw, "/")
	}

	if c.DebounceDelay.Duration < 0 {
		return apperrors.NewConfigurationError("debounce delay must not be negative", nil)
	}

	if c.Port == "" {
		c.Port = constants.DefaultPort
	}
	if c.DatabasePath == "" {
		c.DatabasePath = constants.DefaultDatabasePath
	}
	if c.RequestTimeout.Duration <= 0 {
		c.RequestTimeout = Duration{constants.RequestTimeout}
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	if c.CacheTTL.Duration <= 0 {
		c.CacheTTL = Duration{time.Duration(constants.DefaultCacheTTL) * time.Minute}
	}
	if c.SessionTTL.Duration <= 0 {
		c.SessionTTL = Duration{constants.DefaultSessionTTL}
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = constants.DefaultMaxSessions
	}
	if c.TrendingLimit <= 0 {
		c.TrendingLimit = constants.TrendingLimit
	}

	return nil
}

// MaskedToken returns the TMDB token in a form safe for logs.
func (c *Config) MaskedToken() string {
	return security.NewTokenValidator().MaskToken(c.TMDBToken)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
