// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and saves nexa settings.
//
// Settings live in config.toml under the config directory (~/.nexa, or
// $NEXA_HOME when set). A legacy config.json is read when no TOML file
// exists. Environment variables override both:
//
//	NEXA_PROVIDER, NEXA_API_KEY / GEMINI_API_KEY, NEXA_MODEL,
//	NEXA_OPENROUTER_KEY / OPENROUTER_API_KEY, NEXA_PLANTS_KEY,
//	NEXA_STORAGE_BACKEND, NEXA_DATA_DIR, NEXA_LOG_LEVEL, NEXA_GUEST_NAME
//
// Validate reports every bad field at once as ValidateErrors. Get and Set
// address fields by dotted key ("ui.theme", "completion.provider") for the
// `nexa config` commands; String redacts secrets.
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	time.Sleep(cfg.UI.TransitionDelay())
package config
