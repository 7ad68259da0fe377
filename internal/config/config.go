// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/rigchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigchat configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Paging  PagingConfig  `toml:"paging"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	UI      UIConfig      `toml:"ui"`
}

// APIConfig configures the connection to the chat service.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSecs       int     `toml:"timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// PagingConfig controls how much history each request asks for.
type PagingConfig struct {
	ConversationPageSize int `toml:"conversation_page_size"`
	MessagePageSize      int `toml:"message_page_size"`
	// PrefetchThreshold is how many rows from the bottom of the sidebar
	// the selection may get before the next conversation page is requested.
	PrefetchThreshold int `toml:"prefetch_threshold"`
}

// StorageConfig locates persisted client state.
type StorageConfig struct {
	StateDir string `toml:"state_dir"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	Theme    string `toml:"theme"`
	Markdown bool   `toml:"markdown"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Page size defaults match the server's expectations for the original client.
const (
	DefaultBaseURL              = "http://localhost:8000"
	DefaultTimeoutSecs          = 30
	DefaultRequestsPerSecond    = 5.0
	DefaultConversationPageSize = 10
	DefaultMessagePageSize      = 20
	DefaultPrefetchThreshold    = 2
	DefaultLogLevel             = "info"
	DefaultTheme                = "auto"
)

// Default returns the built-in configuration. Paths under the config
// directory are left empty and resolved by SetDefaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			TimeoutSecs:       DefaultTimeoutSecs,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Paging: PagingConfig{
			ConversationPageSize: DefaultConversationPageSize,
			MessagePageSize:      DefaultMessagePageSize,
			PrefetchThreshold:    DefaultPrefetchThreshold,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		UI: UIConfig{
			Theme:    DefaultTheme,
			Markdown: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigchat"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// EnvFile is the dotenv file read from the working directory.
const EnvFile = ".env"

// Load reads configuration from path, or from ConfigPath when path is empty.
// A missing file is not an error; defaults are used. A .env file in the
// working directory is loaded into the process environment (without
// overwriting variables already set) before environment overrides apply.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, err
		}
	}

	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", EnvFile, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.SetDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// SaveTOML writes cfg to path with owner-only permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# rigchat configuration file\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGCHAT_API_URL: overrides api.base_url
//   - RIGCHAT_STATE_DIR: overrides storage.state_dir
//   - RIGCHAT_LOG_LEVEL: overrides log.level
//   - RIGCHAT_PAGE_SIZE: overrides paging.conversation_page_size
//   - RIGCHAT_MESSAGE_PAGE_SIZE: overrides paging.message_page_size
//
// Unparseable numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RIGCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("RIGCHAT_STATE_DIR"); v != "" {
		c.Storage.StateDir = v
	}
	if v := os.Getenv("RIGCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RIGCHAT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Paging.ConversationPageSize = n
		}
	}
	if v := os.Getenv("RIGCHAT_MESSAGE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Paging.MessagePageSize = n
		}
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills zero-value fields. Storage and log paths default to
// the config directory.
func (c *Config) SetDefaults() error {
	d := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = d.API.RequestsPerSecond
	}
	if c.Paging.ConversationPageSize == 0 {
		c.Paging.ConversationPageSize = d.Paging.ConversationPageSize
	}
	if c.Paging.MessagePageSize == 0 {
		c.Paging.MessagePageSize = d.Paging.MessagePageSize
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}

	if c.Storage.StateDir == "" || c.Log.File == "" {
		dir, err := ConfigDir()
		if err != nil {
			return err
		}
		if c.Storage.StateDir == "" {
			c.Storage.StateDir = dir
		}
		if c.Log.File == "" {
			c.Log.File = filepath.Join(dir, "rigchat.log")
		}
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors listing
// every problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.requests_per_second",
			Message: "must not be negative",
		})
	}
	if c.Paging.ConversationPageSize < 1 || c.Paging.ConversationPageSize > 200 {
		errs = append(errs, ValidationError{
			Field:   "paging.conversation_page_size",
			Message: fmt.Sprintf("must be between 1 and 200, got %d", c.Paging.ConversationPageSize),
		})
	}
	if c.Paging.MessagePageSize < 1 || c.Paging.MessagePageSize > 500 {
		errs = append(errs, ValidationError{
			Field:   "paging.message_page_size",
			Message: fmt.Sprintf("must be between 1 and 500, got %d", c.Paging.MessagePageSize),
		})
	}
	if c.Paging.PrefetchThreshold < 0 {
		errs = append(errs, ValidationError{
			Field:   "paging.prefetch_threshold",
			Message: "must not be negative",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatePath returns the persisted session state file.
func (c *Config) StatePath() string {
	return filepath.Join(c.Storage.StateDir, "state.json")
}

// HistoryPath returns the REPL input history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Storage.StateDir, "repl_history")
}
