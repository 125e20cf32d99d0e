// ABOUTME: Configuration loader for the prodctl client
// ABOUTME: Loads settings from environment variables (and an optional .env file) with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL  = "http://localhost:8000/api"
	DefaultAppName = "Product Management System"
	appDirName     = "prodctl"
)

type Config struct {
	// Backend
	APIURL      string
	HTTPTimeout time.Duration

	// Presentation
	AppName string

	// Password policy (advisory, the server enforces its own)
	PasswordMinLength int
	PasswordPattern   *regexp.Regexp // nil when PRODCTL_PASSWORD_REGEX is unset

	// Local state: token file and debug log
	ConfigDir string
}

// TokenPath returns where the session token is persisted
func (c *Config) TokenPath() string {
	return filepath.Join(c.ConfigDir, "token")
}

// Load reads configuration once at startup. A .env file in the working
// directory is applied first; variables already set in the environment win.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	minLength, err := getEnvInt("PRODCTL_PASSWORD_MIN_LENGTH", 8)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("PRODCTL_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:            NormalizeURL(getEnv("PRODCTL_API_URL", DefaultAPIURL)),
		HTTPTimeout:       timeout,
		AppName:           getEnv("PRODCTL_APP_NAME", DefaultAppName),
		PasswordMinLength: minLength,
		ConfigDir:         getEnv("PRODCTL_CONFIG_DIR", DefaultConfigDir()),
	}

	if cfg.PasswordMinLength < 1 {
		return nil, fmt.Errorf("PRODCTL_PASSWORD_MIN_LENGTH must be at least 1, got %d", cfg.PasswordMinLength)
	}

	if pattern := os.Getenv("PRODCTL_PASSWORD_REGEX"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("PRODCTL_PASSWORD_REGEX is not a valid pattern: %w", err)
		}
		cfg.PasswordPattern = re
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("PRODCTL_HTTP_TIMEOUT must be positive, got %s", cfg.HTTPTimeout)
	}

	if cfg.ConfigDir == "" {
		return nil, fmt.Errorf("cannot determine config directory: set PRODCTL_CONFIG_DIR")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return intVal, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	// Bare integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return 0, fmt.Errorf("%s must be a duration such as 30s, got %q", key, value)
}

// NormalizeURL adds a missing scheme and drops trailing slashes
func NormalizeURL(url string) string {
	return strings.TrimRight(ensureScheme(url), "/")
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
