// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kz4killua/wikirec/internal/normalize"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Data        DataConfig
	Server      ServerConfig
	Wikimedia   WikimediaConfig
	Recommender RecommenderConfig
	Finder      FinderConfig
	Cache       CacheConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage configuration.
type DataConfig struct {
	// BasePath holds the search cache and the session signing key.
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	CORSOrigins  []string      // Allowed browser origins (default: *)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 0, event streams are long-lived)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// WikimediaConfig holds title search client configuration.
type WikimediaConfig struct {
	BaseURL      string
	Language     string
	AccessToken  string // Optional, raises the upstream rate limit
	AppName      string
	AccountEmail string // Optional, contact address for the User-Agent
	RPS          float64
	Burst        int
}

// RecommenderConfig holds recommendation function configuration.
type RecommenderConfig struct {
	// URL of the recommendation function. Empty disables recommendations.
	URL              string
	Timeout          time.Duration
	FailureThreshold int
	OpenTimeout      time.Duration
}

// FinderConfig holds interactive finder session configuration.
type FinderConfig struct {
	DebounceWindow time.Duration
	FocusGrace     time.Duration
	SessionTTL     time.Duration
	SearchLimit    int
	MaxSessions    int
}

// CacheConfig holds title search cache configuration.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuthConfig holds finder session token configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for session tokens (32 bytes)
	SessionTokenKey      []byte
	SessionTokenDuration time.Duration
}

// RateLimitConfig holds inbound API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return loadConfig(flag.CommandLine, os.Args[1:])
}

//nolint:gocyclo // Flat list of settings, one branch per duration.
func loadConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	// Define command-line flags.
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for the search cache and signing key")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 0)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")

	// Upstream flags
	wikimediaURL := fs.String("wikimedia-url", "", "Wikimedia API base URL")
	wikimediaLang := fs.String("wikimedia-language", "", "Wikipedia language code (default: en)")
	recommenderURL := fs.String("recommender-url", "", "Recommendation function URL")

	// Finder flags
	debounceWindow := fs.String("debounce-window", "", "Quiet period before a title search (default: 200ms)")
	searchLimit := fs.String("search-limit", "", "Candidates per title search (default: 5)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Wikimedia: WikimediaConfig{
			BaseURL:      getConfigValue(*wikimediaURL, "WIKIMEDIA_BASE_URL", "https://api.wikimedia.org"),
			Language:     normalize.LanguageCode(getConfigValue(*wikimediaLang, "WIKIMEDIA_LANGUAGE", "en")),
			AccessToken:  getConfigValue("", "WIKIMEDIA_ACCESS_TOKEN", ""),
			AppName:      getConfigValue("", "WIKIMEDIA_APP_NAME", "wikirec"),
			AccountEmail: getConfigValue("", "WIKIMEDIA_ACCOUNT_EMAIL", ""),
			RPS:          getFloatConfigValue("", "WIKIMEDIA_RPS", 50),
			Burst:        getIntConfigValue("", "WIKIMEDIA_BURST", 10),
		},
		Recommender: RecommenderConfig{
			URL:              getConfigValue(*recommenderURL, "RECOMMENDER_URL", ""),
			FailureThreshold: getIntConfigValue("", "RECOMMENDER_FAILURE_THRESHOLD", 5),
		},
		Finder: FinderConfig{
			SearchLimit: getIntConfigValue(*searchLimit, "FINDER_SEARCH_LIMIT", 5),
			MaxSessions: getIntConfigValue("", "FINDER_MAX_SESSIONS", 1000),
		},
		Cache: CacheConfig{
			Enabled: getBoolConfigValue("", "CACHE_ENABLED", true),
		},
		Auth: AuthConfig{
			SessionTokenKey: nil, // Will be set by auth.LoadOrGenerateKey in main
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getIntConfigValue("", "API_RATE_LIMIT", 600),
			Burst:             getIntConfigValue("", "API_RATE_BURST", 60),
		},
	}

	durations := []struct {
		dst      *time.Duration
		flag     string
		envKey   string
		fallback string
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", "0s"},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Recommender.Timeout, "", "RECOMMENDER_TIMEOUT", "30s"},
		{&cfg.Recommender.OpenTimeout, "", "RECOMMENDER_OPEN_TIMEOUT", "30s"},
		{&cfg.Finder.DebounceWindow, *debounceWindow, "FINDER_DEBOUNCE_WINDOW", "200ms"},
		{&cfg.Finder.FocusGrace, "", "FINDER_FOCUS_GRACE", "500ms"},
		{&cfg.Finder.SessionTTL, "", "FINDER_SESSION_TTL", "30m"},
		{&cfg.Cache.TTL, "", "CACHE_TTL", "24h"},
		{&cfg.Auth.SessionTokenDuration, "", "SESSION_TOKEN_DURATION", "2h"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flag, d.envKey, d.fallback)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
//
//nolint:gocyclo // One check per setting.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if err := validateURL("WIKIMEDIA_BASE_URL", c.Wikimedia.BaseURL); err != nil {
		return err
	}
	// An empty recommender URL is allowed; submissions then fail with UNAVAILABLE.
	if c.Recommender.URL != "" {
		if err := validateURL("RECOMMENDER_URL", c.Recommender.URL); err != nil {
			return err
		}
	}

	if c.Wikimedia.Language == "" {
		return errors.New("WIKIMEDIA_LANGUAGE must name a known language")
	}
	if c.Wikimedia.RPS <= 0 || c.Wikimedia.Burst <= 0 {
		return errors.New("WIKIMEDIA_RPS and WIKIMEDIA_BURST must be positive")
	}

	if c.Finder.SearchLimit <= 0 {
		return fmt.Errorf("FINDER_SEARCH_LIMIT must be positive, got %d", c.Finder.SearchLimit)
	}
	if c.Finder.DebounceWindow <= 0 {
		return errors.New("FINDER_DEBOUNCE_WINDOW must be positive")
	}
	if c.Finder.FocusGrace <= 0 {
		return errors.New("FINDER_FOCUS_GRACE must be positive")
	}
	if c.Finder.SessionTTL <= 0 {
		return errors.New("FINDER_SESSION_TTL must be positive")
	}
	if c.Finder.MaxSessions <= 0 {
		return errors.New("FINDER_MAX_SESSIONS must be positive")
	}

	if c.Recommender.FailureThreshold <= 0 {
		return errors.New("RECOMMENDER_FAILURE_THRESHOLD must be positive")
	}
	if c.Auth.SessionTokenDuration <= 0 {
		return errors.New("SESSION_TOKEN_DURATION must be positive")
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}

	// Auth key is set by auth.LoadOrGenerateKey in main.

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute http(s) URL", name, raw)
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".wikirec")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// CachePath is where the Badger search cache lives.
func (c *Config) CachePath() string {
	return filepath.Join(c.Data.BasePath, "cache")
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
