package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/imgbb"
)

// Config holds everything postboard needs at startup.
type Config struct {
	APIBaseURL    string
	ImageHostURL  string
	ImageAPIKey   string
	CookieDB      string
	LogFile       string
	WatchInterval time.Duration
}

// Environment variables that override the file.
const (
	EnvAPIURL      = "POSTBOARD_API_URL"
	EnvImageAPIKey = "IMGBB_API_KEY"
)

const (
	defaultConfigPath    = "~/.config/postboard/config.toml"
	defaultEnvPath       = ".env"
	defaultCookieDB      = "~/.local/share/postboard/cookies.db"
	defaultLogFile       = "~/.local/state/postboard/postboard.log"
	defaultWatchInterval = 2 * time.Second
)

// Load reads the optional dotenv file at envPath, then the TOML config at
// path, then applies environment overrides. Missing files mean defaults.
func Load(path, envPath string) (Config, error) {
	if err := loadDotenv(envPath); err != nil {
		return Config{}, err
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIBaseURL    string `toml:"api_base_url"`
		ImageHostURL  string `toml:"image_host_url"`
		ImageAPIKey   string `toml:"image_api_key"`
		CookieDB      string `toml:"cookie_db"`
		LogFile       string `toml:"log_file"`
		WatchInterval string `toml:"watch_interval"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		APIBaseURL:    firstNonEmpty(os.Getenv(EnvAPIURL), raw.APIBaseURL, api.DefaultBaseURL),
		ImageHostURL:  firstNonEmpty(raw.ImageHostURL, imgbb.DefaultEndpoint),
		ImageAPIKey:   firstNonEmpty(os.Getenv(EnvImageAPIKey), raw.ImageAPIKey),
		CookieDB:      mustExpand(firstNonEmpty(raw.CookieDB, defaultCookieDB)),
		LogFile:       mustExpand(firstNonEmpty(raw.LogFile, defaultLogFile)),
		WatchInterval: defaultWatchInterval,
	}

	if s := strings.TrimSpace(raw.WatchInterval); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("parse watch_interval: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("watch_interval must be positive, got %s", s)
		}
		cfg.WatchInterval = d
	}

	return cfg, nil
}

// UploadsEnabled reports whether an image host key is configured.
func (c Config) UploadsEnabled() bool {
	return strings.TrimSpace(c.ImageAPIKey) != ""
}

func loadDotenv(envPath string) error {
	explicit := strings.TrimSpace(envPath) != ""
	target := defaultEnvPath
	if explicit {
		target = mustExpand(envPath)
	}
	err := godotenv.Load(target)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", target, err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
