package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.AppName != DefaultAppName {
		t.Errorf("Expected default app name, got %s", cfg.AppName)
	}
	if cfg.PasswordMinLength != 8 {
		t.Errorf("Expected default password min length 8, got %d", cfg.PasswordMinLength)
	}
	if cfg.PasswordPattern != nil {
		t.Error("Expected no password pattern by default")
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected default timeout 30s, got %s", cfg.HTTPTimeout)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"PRODCTL_API_URL":             "api.example.com/api/",
		"PRODCTL_APP_NAME":            "Shop Admin",
		"PRODCTL_PASSWORD_MIN_LENGTH": "12",
		"PRODCTL_PASSWORD_REGEX":      "[A-Z]",
		"PRODCTL_HTTP_TIMEOUT":        "5",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://api.example.com/api" {
		t.Errorf("Expected scheme added and trailing slash trimmed, got %s", cfg.APIURL)
	}
	if cfg.AppName != "Shop Admin" {
		t.Errorf("Expected app name from env, got %s", cfg.AppName)
	}
	if cfg.PasswordMinLength != 12 {
		t.Errorf("Expected min length 12, got %d", cfg.PasswordMinLength)
	}
	if cfg.PasswordPattern == nil || !cfg.PasswordPattern.MatchString("Abc") {
		t.Error("Expected password pattern to be compiled from env")
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected bare integer timeout to mean seconds, got %s", cfg.HTTPTimeout)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]string
	}{
		{"zero min length", map[string]string{"PRODCTL_PASSWORD_MIN_LENGTH": "0"}},
		{"non-integer min length", map[string]string{"PRODCTL_PASSWORD_MIN_LENGTH": "abc"}},
		{"unparsable timeout", map[string]string{"PRODCTL_HTTP_TIMEOUT": "soon"}},
		{"bad regex", map[string]string{"PRODCTL_PASSWORD_REGEX": "[unclosed"}},
		{"negative timeout", map[string]string{"PRODCTL_HTTP_TIMEOUT": "-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanEnv(t, tt.extra))

			if _, err := Load(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfig_NonIntegerMinLengthNamesVariable(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"PRODCTL_PASSWORD_MIN_LENGTH": "abc"}))

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "PRODCTL_PASSWORD_MIN_LENGTH") || !strings.Contains(err.Error(), `"abc"`) {
		t.Errorf("Expected error to name the variable and value, got %v", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"host:8000/api", "https://host:8000/api"},
		{"http://localhost:8000/api/", "http://localhost:8000/api"},
		{"https://api.example.com", "https://api.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"PRODCTL_APP_NAME": "From Environment",
	}))

	dir := t.TempDir()
	env := "PRODCTL_API_URL=http://dotenv.test/api\nPRODCTL_APP_NAME=From DotEnv\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.APIURL != "http://dotenv.test/api" {
		t.Errorf("Expected API URL from .env, got %s", cfg.APIURL)
	}
	if cfg.AppName != "From Environment" {
		t.Errorf("Expected existing env to win over .env, got %s", cfg.AppName)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"XDG_CONFIG_HOME": "/tmp/xdg"}))

	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "prodctl") {
		t.Errorf("Expected XDG config dir, got %s", got)
	}
}

func TestTokenPath(t *testing.T) {
	cfg := &Config{ConfigDir: "/home/u/.config/prodctl"}
	if got := cfg.TokenPath(); got != "/home/u/.config/prodctl/token" {
		t.Errorf("unexpected token path %s", got)
	}
}
