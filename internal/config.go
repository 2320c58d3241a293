package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Data     DataConfig        `yaml:"data"`
	Accounts AccountsConfig    `yaml:"accounts"`
	Text     TextConfig        `yaml:"text"`
	MCP      MCPConfig         `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Data.Validate(); err != nil {
		return err
	}
	return c.Accounts.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DataConfig holds the path to the per-user data directory that stores
// diaries, quick-notes and preferences.
type DataConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the data configuration.
func (c *DataConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AccountsConfig holds the account database and session configuration.
type AccountsConfig struct {
	SQLitePath string        `yaml:"sqlite_path"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Validate validates the accounts configuration.
func (c *AccountsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// TextConfig holds the optional Ollama-backed text processing
// configuration. Leaving URL or Model empty disables the model and the
// text endpoints fall back to local processing.
type TextConfig struct {
	OllamaURL string `yaml:"ollama_url"`
	Model     string `yaml:"model"`
}

// MCPConfig holds MCP stdio server configuration. The MCP server acts
// on behalf of a single user.
type MCPConfig struct {
	User string `yaml:"user"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Data: DataConfig{
			Path: "./data",
		},
		Accounts: AccountsConfig{
			SQLitePath: "./daybook.db",
			SessionTTL: 24 * time.Hour,
		},
		Text: TextConfig{
			Model: "qwen2.5:3b",
		},
		MCP: MCPConfig{
			User: "default",
		},
	}
}
