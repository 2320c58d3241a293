package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (c *testConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_APP_NAME", "daybook")

	path := writeFile(t, "name: ${TEST_APP_NAME}\nport: 8080\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "daybook" || cfg.Port != 8080 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeFile(t, "name: x\nport: 0\n")

	var cfg testConfig
	if err := Load(path, &cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadIfPresent_MissingFileKeepsDefaults(t *testing.T) {
	cfg := testConfig{Name: "default", Port: 9000}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "default" || cfg.Port != 9000 {
		t.Fatalf("defaults were modified: %+v", cfg)
	}
}

func TestLoadIfPresent_MissingFileStillValidates(t *testing.T) {
	cfg := testConfig{Name: "default", Port: 0}
	if err := LoadIfPresent(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Fatal("expected validation error on defaults")
	}
}

func TestLoadIfPresent_ExistingFileOverrides(t *testing.T) {
	path := writeFile(t, "name: from-file\nport: 1234\n")

	cfg := testConfig{Name: "default", Port: 9000}
	if err := LoadIfPresent(path, &cfg); err != nil {
		t.Fatalf("LoadIfPresent: %v", err)
	}
	if cfg.Name != "from-file" || cfg.Port != 1234 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
