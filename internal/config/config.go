// Package config loads process configuration from the environment and an
// optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/aryannaik/bookmark-relevance/internal/similarity"
)

var ErrMissingEndpoint = errors.New("BOOKMARKS_API_URL is required")

type Config struct {
	Port            string
	DataDir         string
	BookmarksAPIURL string
	SettingsFile    string
	LogLevel        string
	LogFormat       string
	CORSOrigins     []string
	RefreshInterval time.Duration
	Settings        similarity.Settings
}

// Load reads .env when present, then the environment. Relationship
// settings start from the defaults and are overlaid by SETTINGS_FILE.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:            envOrDefault("PORT", "8990"),
		DataDir:         envOrDefault("DATA_DIR", "data"),
		BookmarksAPIURL: os.Getenv("BOOKMARKS_API_URL"),
		SettingsFile:    os.Getenv("SETTINGS_FILE"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "*")),
	}

	if cfg.BookmarksAPIURL == "" {
		return Config{}, ErrMissingEndpoint
	}

	interval, err := time.ParseDuration(envOrDefault("REFRESH_INTERVAL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.Settings, err = LoadSettings(cfg.SettingsFile)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadSettings returns the default settings overlaid by the YAML file at
// path. An empty path yields the defaults.
func LoadSettings(path string) (similarity.Settings, error) {
	settings := similarity.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return similarity.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return similarity.Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return similarity.Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return settings, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
