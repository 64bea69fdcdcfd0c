package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearStudyaidEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STUDYAID_SERVER", "STUDYAID_API_KEY", "STUDYAID_TIMEOUT_SECONDS", "STUDYAID_LOG_MODE",
		"STUDYAID_STORE_BACKEND", "STUDYAID_STORE_PATH", "STUDYAID_REDIS_ADDR", "STUDYAID_STORE_DSN", "STUDYAID_STORE_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearStudyaidEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server != DefaultServerURL || cfg.Store.Backend != "file" || cfg.Store.Key != "generatedContent" {
		t.Fatalf("defaults: got=%+v", cfg)
	}
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	clearStudyaidEnv(t)
	path := filepath.Join(t.TempDir(), "studyaid.yaml")
	yml := `server: https://proxy.example.edu
api_key: from-file
timeout: 45s
store:
  backend: sqlite
  dsn: file:study.db
  key: custom
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("STUDYAID_API_KEY", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server != "https://proxy.example.edu" {
		t.Fatalf("server: got=%q", cfg.Server)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("api key: want env override got=%q", cfg.APIKey)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout: got=%v", cfg.Timeout)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.DSN != "file:study.db" || cfg.Store.Key != "custom" {
		t.Fatalf("store: got=%+v", cfg.Store)
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	clearStudyaidEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("server: [unclosed"), 0o600)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
