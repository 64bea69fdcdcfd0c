package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyaid-backend/internal/contentstore"
	"github.com/yungbote/studyaid-backend/internal/platform/envutil"
)

const (
	DefaultServerURL  = "http://localhost:8080"
	defaultConfigName = ".studyaid.yaml"
)

type Config struct {
	Server  string        `yaml:"server"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	LogMode string        `yaml:"log_mode"`
	Store   StoreConfig   `yaml:"store"`
}

type StoreConfig struct {
	// Backend is one of memory, file, redis, sqlite, postgres.
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	RedisAddr string `yaml:"redis_addr"`
	DSN       string `yaml:"dsn"`
	Key       string `yaml:"key"`
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigName
	}
	return filepath.Join(home, defaultConfigName)
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".studyaid", "generated-content.json")
	}
	return filepath.Join(home, ".studyaid", "generated-content.json")
}

func defaultConfig() Config {
	return Config{
		Server:  DefaultServerURL,
		Timeout: 3 * time.Minute,
		LogMode: "quiet",
		Store: StoreConfig{
			Backend: "file",
			Path:    defaultStorePath(),
			Key:     contentstore.DefaultStorageKey,
		},
	}
}

// LoadConfig reads the YAML file at path (a missing file is fine), then
// applies STUDYAID_* environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Server = envutil.String("STUDYAID_SERVER", cfg.Server)
	cfg.APIKey = envutil.String("STUDYAID_API_KEY", cfg.APIKey)
	cfg.Timeout = envutil.Seconds("STUDYAID_TIMEOUT_SECONDS", cfg.Timeout)
	cfg.LogMode = envutil.String("STUDYAID_LOG_MODE", cfg.LogMode)
	cfg.Store.Backend = envutil.String("STUDYAID_STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.Path = envutil.String("STUDYAID_STORE_PATH", cfg.Store.Path)
	cfg.Store.RedisAddr = envutil.String("STUDYAID_REDIS_ADDR", cfg.Store.RedisAddr)
	cfg.Store.DSN = envutil.String("STUDYAID_STORE_DSN", cfg.Store.DSN)
	cfg.Store.Key = envutil.String("STUDYAID_STORE_KEY", cfg.Store.Key)
	if cfg.Store.Key == "" {
		cfg.Store.Key = contentstore.DefaultStorageKey
	}
	return cfg, nil
}
