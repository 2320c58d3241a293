package internal

import (
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
	if cfg.Accounts.SessionTTL != 24*time.Hour {
		t.Errorf("session ttl = %v", cfg.Accounts.SessionTTL)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
	cfg := HTTPConfig{Port: 443}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 443 should pass: %v", err)
	}
}

func TestDataConfig_PathRequired(t *testing.T) {
	cfg := DataConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty data path should fail validation")
	}
}

func TestAccountsConfig_SQLitePathRequired(t *testing.T) {
	cfg := AccountsConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("empty sqlite path should fail validation")
	}
}

func TestFullConfig_PropagatesSectionErrors(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Data.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch data error")
	}
}
