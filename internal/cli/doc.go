// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// rigchat.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments
//   - Env: Configuration, logger, API client and state store shared by commands
//   - REPL: Line-mode chat client over a session
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	cfg, err := cli.LoadConfig(args)
//	env := cli.NewEnv(cfg, logger)
//	switch cmd {
//	case cli.CmdHistory:
//	    err = cli.HandleHistory(ctx, env, args)
//	}
//
// # Commands Overview
//
//   - tui: Full-screen client (default)
//   - login, register, logout: Manage the stored identity
//   - repl: Line-mode chat
//   - history: Print the conversation list page by page
//   - version, help
package cli
