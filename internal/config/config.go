package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/facetdex/internal/domain/page"
	"github.com/kailas-cloud/facetdex/internal/domain/search/filter"
)

// Config holds the facetdex API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Typeahead TypeaheadConfig `yaml:"typeahead"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. It guards the import endpoint.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds catalog storage and view settings.
type CatalogConfig struct {
	KeyPrefix   string           `yaml:"key_prefix"`
	Breakpoints page.Breakpoints `yaml:"breakpoints"`
	PreviewSize int              `yaml:"preview_size"`
	// LegacySubstringMatch is "legacy-only" or "always".
	LegacySubstringMatch string `yaml:"legacy_substring_match"`
	// OnLoadError is "keep" or "clear".
	OnLoadError string `yaml:"on_load_error"`
}

// TypeaheadConfig holds typeahead settings.
type TypeaheadConfig struct {
	DebounceMS  int `yaml:"debounce_ms"`
	TimeoutMS   int `yaml:"timeout_ms"`
	CacheSize   int `yaml:"cache_size"` // 0 disables the search cache
	CacheTTLSec int `yaml:"cache_ttl_sec"`
}

// Debounce returns the debounce period.
func (c TypeaheadConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout returns the per-search timeout.
func (c TypeaheadConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// CacheTTL returns the search cache entry lifetime.
func (c TypeaheadConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Catalog.KeyPrefix == "" {
		c.Catalog.KeyPrefix = "facetdex:"
	}
	if len(c.Catalog.Breakpoints) == 0 {
		c.Catalog.Breakpoints = page.DefaultBreakpoints()
	}
	if c.Catalog.PreviewSize <= 0 {
		c.Catalog.PreviewSize = 5
	}
	if c.Catalog.LegacySubstringMatch == "" {
		c.Catalog.LegacySubstringMatch = string(filter.LegacyOnly)
	}
	if c.Catalog.OnLoadError == "" {
		c.Catalog.OnLoadError = "keep"
	}
	if c.Typeahead.DebounceMS <= 0 {
		c.Typeahead.DebounceMS = 300
	}
	if c.Typeahead.TimeoutMS <= 0 {
		c.Typeahead.TimeoutMS = 5000
	}
	if c.Typeahead.CacheSize < 0 {
		c.Typeahead.CacheSize = 0
	}
	if c.Typeahead.CacheTTLSec <= 0 {
		c.Typeahead.CacheTTLSec = 30
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "", "valkey", "redis":
	default:
		return fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if err := c.Catalog.Breakpoints.Validate(); err != nil {
		return fmt.Errorf("catalog.breakpoints: %w", err)
	}
	if _, err := filter.ParseLegacyPolicy(c.Catalog.LegacySubstringMatch); err != nil {
		return fmt.Errorf("catalog.legacy_substring_match: %w", err)
	}
	switch c.Catalog.OnLoadError {
	case "", "keep", "clear":
	default:
		return fmt.Errorf("catalog.on_load_error must be \"keep\" or \"clear\", got %q", c.Catalog.OnLoadError)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
