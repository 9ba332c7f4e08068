package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, "--config", env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "API key configured: no")
	if _, err := os.Stat(env.dataDir); err != nil {
		t.Fatalf("expected data dir to be created: %v", err)
	}

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigInitSkipsConfigLoad(t *testing.T) {
	setupCLITestEnv(t)
	broken := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(broken, []byte("[server\nport = "), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, _, err := runCLI(t, "--config", broken, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init should not parse --config: %v", err)
	}
	if _, _, err := runCLI(t, "--config", broken, "config", "validate"); err == nil {
		t.Fatal("expected validate to fail on malformed config")
	}
}

func TestEnvFileSuppliesAPIKey(t *testing.T) {
	env := setupCLITestEnv(t)
	os.Unsetenv("OPENAI_API_KEY")
	envPath := filepath.Join(env.baseDir, "custom.env")
	if err := os.WriteFile(envPath, []byte("OPENAI_API_KEY=sk-test-wxyz\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "--config", env.configPath, "--env-file", envPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "API key configured: yes")
}

func TestMissingEnvFileFlagIsError(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, "--config", env.configPath, "--env-file", filepath.Join(env.baseDir, "absent.env"), "config", "validate")
	if err == nil {
		t.Fatal("expected error for missing --env-file")
	}
}
