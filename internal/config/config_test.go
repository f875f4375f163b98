// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Completion.Provider != ProviderGemini {
		t.Errorf("Expected provider 'gemini', got '%s'", cfg.Completion.Provider)
	}
	if cfg.Completion.Model != "gemini-3-flash-preview" {
		t.Errorf("Expected model 'gemini-3-flash-preview', got '%s'", cfg.Completion.Model)
	}
	if cfg.UI.TransitionDelay() != 800*time.Millisecond {
		t.Errorf("Expected 800ms transition, got %v", cfg.UI.TransitionDelay())
	}
	if cfg.UI.BookingTTL() != 0 {
		t.Errorf("Expected booking to live for the process lifetime, got %v", cfg.UI.BookingTTL())
	}
	if cfg.Auth.GuestName != "Guest" {
		t.Errorf("Expected guest name 'Guest', got '%s'", cfg.Auth.GuestName)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Completion.Provider = "ollama"
	cfg.Storage.Backend = "s3"
	cfg.UI.TransitionMS = -1
	cfg.Log.Level = "trace"

	err := cfg.Validate()
	var verrs ValidateErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected ValidateErrors, got %T", err)
	}
	if len(verrs) != 4 {
		t.Errorf("Expected 4 validation errors, got %d: %v", len(verrs), verrs)
	}
}

func TestValidate_TOTPSecret(t *testing.T) {
	cfg := Default()
	cfg.Auth.TOTPSecret = "JBSWY3DPEHPK3PXP"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid base32 secret, got %v", err)
	}

	cfg.Auth.TOTPSecret = "not base32!"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid TOTP secret")
	}
}

func TestLoadFromPath_TOMLPartialFillsDefaults(t *testing.T) {
	unsetEnv(t, "NEXA_PROVIDER")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[completion]\nprovider = \"mock\"\n\n[ui]\ntransition_ms = 0\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Completion.Provider != ProviderMock {
		t.Errorf("Expected provider 'mock', got '%s'", cfg.Completion.Provider)
	}
	if cfg.Completion.Model != "gemini-3-flash-preview" {
		t.Errorf("Expected default model, got '%s'", cfg.Completion.Model)
	}
	if cfg.Storage.Backend != StorageFile {
		t.Errorf("Expected default storage backend, got '%s'", cfg.Storage.Backend)
	}
}

func TestLoadFromPath_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[completion\nprovider="), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromPath(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Completion.Provider = ProviderOpenRouter
	cfg.UI.BookingTTLMinutes = 90

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %o", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Completion.Provider != ProviderOpenRouter {
		t.Errorf("Expected provider 'openrouter', got '%s'", loaded.Completion.Provider)
	}
	if loaded.UI.BookingTTLMinutes != 90 {
		t.Errorf("Expected booking ttl 90, got %d", loaded.UI.BookingTTLMinutes)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("NEXA_PROVIDER", "mock")
	t.Setenv("NEXA_STORAGE_BACKEND", "sqlite")
	unsetEnv(t, "NEXA_API_KEY")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}
	if cfg.Completion.Provider != ProviderMock {
		t.Errorf("Expected provider 'mock', got '%s'", cfg.Completion.Provider)
	}
	if cfg.Storage.Backend != StorageSQLite {
		t.Errorf("Expected backend 'sqlite', got '%s'", cfg.Storage.Backend)
	}
	if cfg.Completion.APIKey != "gem-key" {
		t.Errorf("Expected GEMINI_API_KEY fallback, got '%s'", cfg.Completion.APIKey)
	}
}

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("ui.transition_ms", "250"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err := cfg.Get("ui.transition_ms")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.(int) != 250 {
		t.Errorf("Expected 250, got %v", v)
	}

	if err := cfg.Set("ui.plain_text", "true"); err != nil {
		t.Fatalf("Set bool failed: %v", err)
	}
	if !cfg.UI.PlainText {
		t.Error("Expected plain_text to be true")
	}

	if _, err := cfg.Get("ui.nope"); err == nil {
		t.Error("Expected error for unknown key")
	}
	if _, err := cfg.Get("ui.theme.deeper"); err == nil {
		t.Error("Expected error when descending into a non-section")
	}
}

func TestString_RedactsSecrets(t *testing.T) {
	cfg := Default()
	cfg.Completion.APIKey = "super-secret"
	out := cfg.String()
	if strings.Contains(out, "super-secret") {
		t.Error("String() leaked the API key")
	}
	if cfg.Completion.APIKey != "super-secret" {
		t.Error("String() modified the original config")
	}
}

func TestLoad_UsesNexaHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEXA_HOME", dir)
	unsetEnv(t, "NEXA_PROVIDER")
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"completion":{"provider":"mock"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Completion.Provider != ProviderMock {
		t.Errorf("Expected provider from config.json, got '%s'", cfg.Completion.Provider)
	}
	logPath, _ := cfg.LogPath()
	if logPath != filepath.Join(dir, "nexa.log") {
		t.Errorf("Unexpected log path %s", logPath)
	}
}

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}
