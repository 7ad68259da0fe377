// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the storage and view packages.
//
// # Key Functions
//
//   - AtomicWriteFile: Crash-safe file writing with fsync
//   - TruncateWidth: Column-aware truncation for terminal layouts
//   - PadWidth: Right-pad a string to a display width
//
// # Usage
//
//	err := util.AtomicWriteFile(path, data, 0600)
//	title := util.TruncateWidth(conv.DisplayTitle(), 24)
package util
