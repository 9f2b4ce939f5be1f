// Package config provides configuration loading and management for wordfinder.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stacklok/wordfinder/internal/telemetry"
	"github.com/stacklok/wordfinder/internal/wordlist"
)

// EnvPrefix is the prefix of every environment variable read by wordfinder
const EnvPrefix = "WORDFINDER"

const (
	// SourceTypeFile is the type for words read from a local word file
	SourceTypeFile = "file"

	// SourceTypeURL is the type for words downloaded from an HTTP(S) URL
	SourceTypeURL = "url"

	// SourceTypeDatabase is the type for words read from the PostgreSQL word store
	SourceTypeDatabase = "database"
)

const (
	defaultLanguage        = "en"
	defaultWordLength      = 5
	defaultAddress         = ":8080"
	defaultSessionTTL      = 30 * time.Minute
	defaultCleanupInterval = time.Minute
	defaultMaxSessions     = 10000
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Language is the default word list language. Defaults to "en"
	Language string `yaml:"language,omitempty"`

	// WordLength is the length words are narrowed to when a session starts.
	// Defaults to 5; 0 keeps words of every length
	WordLength *int `yaml:"wordLength,omitempty"`

	// Word sources; exactly one must be set
	Wordlist *WordlistConfig `yaml:"wordlist,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty"`

	Sessions *SessionConfig           `yaml:"sessions,omitempty"`
	Server   *ServerConfig            `yaml:"server,omitempty"`
	Tracing  *telemetry.TracingConfig `yaml:"tracing,omitempty"`
}

// WordlistConfig defines a word list with one word per line, read from a
// local file or downloaded over HTTP. Exactly one of Path and URL is set.
type WordlistConfig struct {
	// Path is the path to a local word file
	Path string `yaml:"path,omitempty"`

	// URL is an http(s) address the word list is downloaded from
	URL string `yaml:"url,omitempty"`

	// Timeout bounds each download attempt (e.g., "30s")
	Timeout string `yaml:"timeout,omitempty"`
}

// GetTimeout returns the download timeout, or zero for the client default
func (w *WordlistConfig) GetTimeout() time.Duration {
	if w.Timeout == "" {
		return 0
	}
	// Validated on load
	timeout, _ := time.ParseDuration(w.Timeout)
	return timeout
}

// SessionConfig controls the lifetime of filtering sessions held by the API server
type SessionConfig struct {
	// TTL is how long an idle session is kept (e.g., "30m")
	TTL string `yaml:"ttl,omitempty"`

	// CleanupInterval is how often expired sessions are evicted (e.g., "1m")
	CleanupInterval string `yaml:"cleanupInterval,omitempty"`

	// MaxSessions caps the number of live sessions
	MaxSessions int `yaml:"maxSessions,omitempty"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	// Address is the address to listen on. Defaults to ":8080"
	Address string `yaml:"address,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the minimum number of idle connections kept in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// Default returns the configuration used when no file is given: words from
// the given word file, every other setting at its default
func Default(wordlistPath string) *Config {
	return &Config{
		Wordlist: &WordlistConfig{Path: wordlistPath},
	}
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from WORDFINDER_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(EnvPrefix + "_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_DATABASE_PASSWORD environment variable", EnvPrefix,
	)
}

// GetConnectionString builds a PostgreSQL connection URL with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// GetConnMaxLifetime returns the parsed connection lifetime, or zero when unset
func (d *DatabaseConfig) GetConnMaxLifetime() (time.Duration, error) {
	if d.ConnMaxLifetime == "" {
		return 0, nil
	}
	return time.ParseDuration(d.ConnMaxLifetime)
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetLanguage returns the language, using "en" if not specified
func (c *Config) GetLanguage() string {
	if c.Language == "" {
		return defaultLanguage
	}
	return c.Language
}

// GetWordLength returns the starting word length, using 5 if not specified
func (c *Config) GetWordLength() int {
	if c.WordLength == nil {
		return defaultWordLength
	}
	return *c.WordLength
}

// GetSourceType returns the inferred type of the word source based on which field is present
func (c *Config) GetSourceType() string {
	if c.Wordlist != nil {
		if c.Wordlist.URL != "" {
			return SourceTypeURL
		}
		return SourceTypeFile
	}
	if c.Database != nil {
		return SourceTypeDatabase
	}
	return ""
}

// GetAddress returns the HTTP listen address, using ":8080" if not specified
func (c *Config) GetAddress() string {
	if c.Server == nil || c.Server.Address == "" {
		return defaultAddress
	}
	return c.Server.Address
}

// GetSessionTTL returns how long idle sessions are kept
func (c *Config) GetSessionTTL() time.Duration {
	if c.Sessions == nil || c.Sessions.TTL == "" {
		return defaultSessionTTL
	}
	// Validated on load
	ttl, _ := time.ParseDuration(c.Sessions.TTL)
	return ttl
}

// GetCleanupInterval returns how often expired sessions are evicted
func (c *Config) GetCleanupInterval() time.Duration {
	if c.Sessions == nil || c.Sessions.CleanupInterval == "" {
		return defaultCleanupInterval
	}
	interval, _ := time.ParseDuration(c.Sessions.CleanupInterval)
	return interval
}

// GetMaxSessions returns the cap on live sessions
func (c *Config) GetMaxSessions() int {
	if c.Sessions == nil || c.Sessions.MaxSessions == 0 {
		return defaultMaxSessions
	}
	return c.Sessions.MaxSessions
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := wordlist.ValidateLanguage(c.GetLanguage()); err != nil {
		return fmt.Errorf("language: %w", err)
	}

	if c.WordLength != nil && *c.WordLength < 0 {
		return fmt.Errorf("wordLength must not be negative, got %d", *c.WordLength)
	}

	if err := validateSourceCount(c); err != nil {
		return err
	}

	if c.Wordlist != nil {
		if err := validateWordlistConfig(c.Wordlist); err != nil {
			return err
		}
	}

	if c.Database != nil {
		if err := validateDatabaseConfig(c.Database); err != nil {
			return err
		}
	}

	if err := c.Tracing.Validate(); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	return validateSessionConfig(c.Sessions)
}

// validateSourceCount ensures exactly one word source is configured
func validateSourceCount(c *Config) error {
	switch {
	case c.Wordlist == nil && c.Database == nil:
		return fmt.Errorf("one of wordlist or database configuration must be specified")
	case c.Wordlist != nil && c.Database != nil:
		return fmt.Errorf("only one of wordlist or database configuration may be specified")
	}
	return nil
}

// validateWordlistConfig ensures a word list has exactly one usable location
func validateWordlistConfig(w *WordlistConfig) error {
	switch {
	case w.Path == "" && w.URL == "":
		return fmt.Errorf("wordlist.path or wordlist.url is required")
	case w.Path != "" && w.URL != "":
		return fmt.Errorf("only one of wordlist.path or wordlist.url may be specified")
	}

	if w.URL != "" {
		u, err := url.Parse(w.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("wordlist.url must be an http or https URL, got %q", w.URL)
		}
	}

	if w.Timeout != "" {
		if d, err := time.ParseDuration(w.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("wordlist.timeout must be a positive duration, got %q", w.Timeout)
		}
	}
	return nil
}

// validateDatabaseConfig validates the database connection settings
func validateDatabaseConfig(db *DatabaseConfig) error {
	if db.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if db.Port <= 0 {
		return fmt.Errorf("database.port is required")
	}
	if db.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if db.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if _, err := db.GetConnMaxLifetime(); err != nil {
		return fmt.Errorf("database.connMaxLifetime must be a valid duration: %w", err)
	}
	return nil
}

// validateSessionConfig validates session lifetime settings
func validateSessionConfig(sessions *SessionConfig) error {
	if sessions == nil {
		return nil
	}

	for field, value := range map[string]string{
		"sessions.ttl":             sessions.TTL,
		"sessions.cleanupInterval": sessions.CleanupInterval,
	} {
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s must be a valid duration (e.g., '30m', '1h'): %w", field, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}

	if sessions.MaxSessions < 0 {
		return fmt.Errorf("sessions.maxSessions must not be negative")
	}
	return nil
}
