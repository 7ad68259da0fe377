// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a conversation transcript to a file.
//
// # Supported Formats
//
//   - JSON: machine-readable, every message with its timestamp
//   - Markdown: human-readable, assistant replies kept as markdown
//
// # Usage
//
//	exporter, err := export.ForFormat("md", export.DefaultOptions())
//	path, err := export.ExportToFile(transcript, exporter, opts)
package export
