package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"taskcenter/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TASK_DASHBOARD_PORT", "")
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "taskcenter", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) || filepath.Base(cfg.Paths.DataDir) != "data" {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if !filepath.IsAbs(cfg.Paths.StaticDir) {
		t.Fatalf("expected absolute static dir, got %q", cfg.Paths.StaticDir)
	}
	if cfg.Server.Port != 8009 {
		t.Fatalf("unexpected port: %d", cfg.Server.Port)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o-mini" || cfg.OpenAI.TranscriptionModel != "whisper-1" {
		t.Fatalf("unexpected models: %q %q", cfg.OpenAI.ChatModel, cfg.OpenAI.TranscriptionModel)
	}
	if cfg.Transcription.Language != "ja" {
		t.Fatalf("unexpected language %q", cfg.Transcription.Language)
	}
	if cfg.HasAPIKey() {
		t.Fatal("expected no API key by default")
	}
	if cfg.Addr() != ":8009" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "taskcenter.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Server struct {
			Port int `toml:"port"`
		} `toml:"server"`
		OpenAI struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"openai"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "docs")
	custom.Server.Port = 9100
	custom.OpenAI.APIKey = "sk-file-1234"
	custom.OpenAI.BaseURL = "https://example.com/v1/"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.DataDir != custom.Paths.DataDir {
		t.Fatalf("expected data dir from file, got %q", cfg.Paths.DataDir)
	}
	if cfg.Server.Port != 9100 {
		t.Fatalf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.OpenAI.BaseURL != "https://example.com/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.OpenAI.BaseURL)
	}
	if cfg.APIKeyHint() != "...1234" {
		t.Fatalf("unexpected key hint %q", cfg.APIKeyHint())
	}
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "taskcenter.toml")
	contents := "[server]\nport = 9100\n\n[openai]\napi_key = \"file-key\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("TASK_DASHBOARD_PORT", "8123")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenAI.APIKey != "env-key" {
		t.Errorf("expected API key from env, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("expected port from env, got %d", cfg.Server.Port)
	}
}

func TestInvalidPortEnvRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASK_DASHBOARD_PORT", "eighty")
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
}

func TestPlaceholderKeyCountsAsMissing(t *testing.T) {
	cfg := config.Default()
	cfg.OpenAI.APIKey = config.APIKeyPlaceholder
	if cfg.HasAPIKey() {
		t.Fatal("placeholder key must not count as configured")
	}
	if cfg.APIKeyHint() != "" {
		t.Fatalf("expected empty hint, got %q", cfg.APIKeyHint())
	}
	cfg.OpenAI.APIKey = "sk-real-abcd"
	if !cfg.HasAPIKey() {
		t.Fatal("expected real key to count")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), config.APIKeyPlaceholder) {
		t.Fatalf("expected sample to contain API key placeholder")
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if cfg.Server.Port != 8009 {
		t.Fatalf("unexpected sample port %d", cfg.Server.Port)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"port", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"language", func(c *config.Config) { c.Transcription.Language = "not a tag!" }, "transcription.language"},
		{"base url", func(c *config.Config) { c.OpenAI.BaseURL = "api.openai.com" }, "openai.base_url"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadEnvFileFirstHitWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "parent.env")
	second := filepath.Join(dir, "local.env")
	if err := os.WriteFile(first, []byte("TASKCENTER_TEST_VALUE=parent\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("TASKCENTER_TEST_VALUE=local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKCENTER_TEST_VALUE", "")
	os.Unsetenv("TASKCENTER_TEST_VALUE")

	loaded, err := config.LoadEnvFile(filepath.Join(dir, "missing.env"), first, second)
	if err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if loaded != first {
		t.Fatalf("expected %q loaded, got %q", first, loaded)
	}
	if got := os.Getenv("TASKCENTER_TEST_VALUE"); got != "parent" {
		t.Fatalf("expected value from first file, got %q", got)
	}
}

func TestLoadEnvFileKeepsExistingEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TASKCENTER_TEST_KEEP=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKCENTER_TEST_KEEP", "shell")
	if _, err := config.LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("TASKCENTER_TEST_KEEP"); got != "shell" {
		t.Fatalf("expected shell value to win, got %q", got)
	}
}

func TestLoadEnvFileNoneFound(t *testing.T) {
	loaded, err := config.LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil || loaded != "" {
		t.Fatalf("expected no file and no error, got %q %v", loaded, err)
	}
}
