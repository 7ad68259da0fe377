// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and validation for rigchat.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Chat service endpoint, timeout and client rate limit
//   - PagingConfig: Page sizes for the conversation list and transcripts
//   - ValidateErrors: Every problem found by Validate
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGCHAT_*)
//   - A .env file in the working directory
//   - ~/.rigchat/config.toml (or the path passed with --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	timeout := cfg.API.Timeout()
package config
