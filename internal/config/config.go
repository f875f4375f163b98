// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/jeranaias/nexa-tui/internal/util"
)

// CurrentVersion is the config schema version written by SaveTOML.
const CurrentVersion = "1"

// Completion providers.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nexa configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Completion CompletionConfig `toml:"completion" json:"completion"`
	Plants     PlantsConfig     `toml:"plants" json:"plants"`
	Hotels     HotelsConfig     `toml:"hotels" json:"hotels"`
	Storage    StorageConfig    `toml:"storage" json:"storage"`
	Auth       AuthConfig       `toml:"auth" json:"auth"`
	UI         UIConfig         `toml:"ui" json:"ui"`
	Log        LogConfig        `toml:"log" json:"log"`
	Server     ServerConfig     `toml:"server" json:"server"`
}

// CompletionConfig selects and configures the generative completion backend.
type CompletionConfig struct {
	// Provider is one of "gemini", "openrouter" or "mock".
	Provider string `toml:"provider" json:"provider" env:"NEXA_PROVIDER"`

	// APIKey is the Gemini API key.
	APIKey string `toml:"api_key" json:"api_key" env:"NEXA_API_KEY"`

	Model       string `toml:"model" json:"model" env:"NEXA_MODEL"`
	BaseURL     string `toml:"base_url" json:"base_url" env:"NEXA_COMPLETION_URL"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs" env:"NEXA_TIMEOUT_SECS"`

	OpenRouterKey   string `toml:"openrouter_key" json:"openrouter_key" env:"NEXA_OPENROUTER_KEY"`
	OpenRouterModel string `toml:"openrouter_model" json:"openrouter_model" env:"NEXA_OPENROUTER_MODEL"`
}

// PlantsConfig configures the plant species and pest lookup service.
type PlantsConfig struct {
	BaseURL        string  `toml:"base_url" json:"base_url" env:"NEXA_PLANTS_URL"`
	APIKey         string  `toml:"api_key" json:"api_key" env:"NEXA_PLANTS_KEY"`
	RequestsPerSec float64 `toml:"requests_per_sec" json:"requests_per_sec" env:"NEXA_PLANTS_RPS"`
}

// HotelsConfig configures the optional hotel listing service. An empty
// BaseURL means listings always come from the completion backend.
type HotelsConfig struct {
	BaseURL     string `toml:"base_url" json:"base_url" env:"NEXA_HOTELS_URL"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs"`
}

// StorageConfig selects where the review blob lives.
type StorageConfig struct {
	Backend string `toml:"backend" json:"backend" env:"NEXA_STORAGE_BACKEND"`
	Dir     string `toml:"dir" json:"dir" env:"NEXA_DATA_DIR"`
}

// AuthConfig controls the local sign-in.
type AuthConfig struct {
	GuestName string `toml:"guest_name" json:"guest_name" env:"NEXA_GUEST_NAME"`

	// TOTPSecret enables a one-time code prompt at sign-in when set.
	TOTPSecret string `toml:"totp_secret" json:"totp_secret" env:"NEXA_TOTP_SECRET"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	Theme             string `toml:"theme" json:"theme" env:"NEXA_THEME"`
	TransitionMS      int    `toml:"transition_ms" json:"transition_ms"`
	BookingTTLMinutes int    `toml:"booking_ttl_minutes" json:"booking_ttl_minutes"`
	PlainText         bool   `toml:"plain_text" json:"plain_text"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `toml:"level" json:"level" env:"NEXA_LOG_LEVEL"`
	File  string `toml:"file" json:"file" env:"NEXA_LOG_FILE"`
}

// ServerConfig configures `nexa serve`.
type ServerConfig struct {
	Addr string `toml:"addr" json:"addr" env:"NEXA_ADDR"`

	// Token, when set, is required as a bearer token on every request.
	Token string `toml:"token" json:"token" env:"NEXA_SERVER_TOKEN"`

	// RequestsPerSec caps requests per client address. Zero disables it.
	RequestsPerSec float64 `toml:"requests_per_sec" json:"requests_per_sec"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Completion: CompletionConfig{
			Provider:        ProviderGemini,
			Model:           "gemini-3-flash-preview",
			TimeoutSecs:     60,
			OpenRouterModel: "google/gemini-2.5-flash",
		},
		Plants: PlantsConfig{
			BaseURL:        "https://perenual.com/api",
			RequestsPerSec: 2,
		},
		Hotels: HotelsConfig{
			TimeoutSecs: 10,
		},
		Storage: StorageConfig{
			Backend: StorageFile,
		},
		Auth: AuthConfig{
			GuestName: "Guest",
		},
		UI: UIConfig{
			Theme:        "auto",
			TransitionMS: 800,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
	}
}

// Timeout returns the completion request timeout.
func (c CompletionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// TransitionDelay returns the boot transition delay.
func (c UIConfig) TransitionDelay() time.Duration {
	return time.Duration(c.TransitionMS) * time.Millisecond
}

// BookingTTL returns how long an active booking stays valid. Zero means
// for the lifetime of the process.
func (c UIConfig) BookingTTL() time.Duration {
	return time.Duration(c.BookingTTLMinutes) * time.Minute
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the nexa configuration directory path. NEXA_HOME
// overrides the default ~/.nexa.
func ConfigDir() (string, error) {
	if dir := os.Getenv("NEXA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nexa"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DataDir returns the directory holding the review store. Storage.Dir wins
// over the config directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return ConfigDir()
}

// LogPath returns the log file path. Log.File wins over ~/.nexa/nexa.log.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nexa.log"), nil
}

// ensureSecurePermissions tightens config files to 0600; they hold API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies env overrides, fills defaults and validates.
func (c *Config) finish() error {
	if err := c.ApplyEnvOverrides(); err != nil {
		return err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// SetDefaults fills zero values left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Completion.Provider == "" {
		c.Completion.Provider = d.Completion.Provider
	}
	if c.Completion.Model == "" {
		c.Completion.Model = d.Completion.Model
	}
	if c.Completion.TimeoutSecs == 0 {
		c.Completion.TimeoutSecs = d.Completion.TimeoutSecs
	}
	if c.Completion.OpenRouterModel == "" {
		c.Completion.OpenRouterModel = d.Completion.OpenRouterModel
	}
	if c.Plants.BaseURL == "" {
		c.Plants.BaseURL = d.Plants.BaseURL
	}
	if c.Plants.RequestsPerSec == 0 {
		c.Plants.RequestsPerSec = d.Plants.RequestsPerSec
	}
	if c.Hotels.TimeoutSecs == 0 {
		c.Hotels.TimeoutSecs = d.Hotels.TimeoutSecs
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if strings.TrimSpace(c.Auth.GuestName) == "" {
		c.Auth.GuestName = d.Auth.GuestName
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes cfg to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# nexa configuration file\n")
	b.WriteString("# Generated by nexa - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

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

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	switch c.Completion.Provider {
	case ProviderGemini, ProviderOpenRouter, ProviderMock:
	default:
		add("completion.provider", fmt.Sprintf("must be one of gemini, openrouter, mock (got %q)", c.Completion.Provider))
	}
	if c.Completion.TimeoutSecs < 1 || c.Completion.TimeoutSecs > 600 {
		add("completion.timeout_secs", "must be between 1 and 600")
	}
	if c.Completion.BaseURL != "" && !validHTTPURL(c.Completion.BaseURL) {
		add("completion.base_url", "must be an http(s) URL")
	}

	if !validHTTPURL(c.Plants.BaseURL) {
		add("plants.base_url", "must be an http(s) URL")
	}
	if c.Plants.RequestsPerSec <= 0 {
		add("plants.requests_per_sec", "must be positive")
	}
	if c.Hotels.BaseURL != "" && !validHTTPURL(c.Hotels.BaseURL) {
		add("hotels.base_url", "must be an http(s) URL")
	}

	switch c.Storage.Backend {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		add("storage.backend", fmt.Sprintf("must be one of file, sqlite, memory (got %q)", c.Storage.Backend))
	}

	if c.Auth.TOTPSecret != "" {
		secret := strings.ToUpper(strings.TrimRight(c.Auth.TOTPSecret, "="))
		if _, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret); err != nil {
			add("auth.totp_secret", "must be base32 encoded")
		}
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "must be auto, dark or light")
	}
	if c.UI.TransitionMS < 0 || c.UI.TransitionMS > 10000 {
		add("ui.transition_ms", "must be between 0 and 10000")
	}
	if c.UI.BookingTTLMinutes < 0 {
		add("ui.booking_ttl_minutes", "must not be negative")
	}

	if c.Server.RequestsPerSec < 0 {
		add("server.requests_per_sec", "must not be negative")
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		add("log.level", "must be debug, info, warn or error")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies NEXA_* environment variables declared on the
// struct tags. GEMINI_API_KEY and OPENROUTER_API_KEY are honoured when the
// NEXA_ variants are not set.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	if c.Completion.APIKey == "" {
		c.Completion.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Completion.OpenRouterKey == "" {
		c.Completion.OpenRouterKey = os.Getenv("OPENROUTER_API_KEY")
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value by its TOML key path (e.g. "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a configuration value by its TOML key path. String values are
// converted to the field's kind.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setFieldValue(field reflect.Value, value interface{}) error {
	if s, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(s)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(n)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns an indented JSON rendering with secrets redacted.
func (c *Config) String() string {
	safe := c.Clone()
	for _, s := range []*string{
		&safe.Completion.APIKey,
		&safe.Completion.OpenRouterKey,
		&safe.Plants.APIKey,
		&safe.Auth.TOTPSecret,
		&safe.Server.Token,
	} {
		if *s != "" {
			*s = "[REDACTED]"
		}
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
