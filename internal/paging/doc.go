// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package paging implements backward-in-time pagination for the conversation
// list and for per-conversation message history.
//
// Both paginators split a load into two steps so that the network call can
// run outside the event loop:
//
//	ticket, ok := pager.Next()        // guard + mark loading
//	page, err := fetch(ctx, ticket.Query)
//	result := pager.Apply(ticket, page, err)
//
// Next returns ok=false while a fetch for the same key is in flight or after
// the end of the data was reached, so duplicate triggers are dropped rather
// than queued. Every ticket carries the generation of the cursor it was issued
// for; Apply discards results whose generation was invalidated by a reset.
//
// # Key Types
//
//   - Cursor: Oldest timestamp seen plus loading/done flags
//   - ConversationPager: Deduplicated, newest-first conversation list
//   - Histories: Per-conversation cursors and ascending transcripts
//
// The paginators are not safe for concurrent use. They are owned by a single
// event loop (the Bubble Tea Update function or the REPL loop).
package paging
