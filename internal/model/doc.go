// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the domain types shared by the API client, the
// paginators and the views, together with the ordering helpers they rely on.
//
// # Key Types
//
//   - Conversation: One entry of the conversation list (chat id, title, created_at)
//   - Message: Single transcript entry with role, content and timestamp
//   - User: Identity returned by the auth endpoints
//   - PageQuery: Page size and older-than bound for a history fetch
//
// # Ordering
//
// Conversations are always shown newest first and messages oldest first:
//
//	model.SortConversations(convs) // created_at descending
//	model.SortMessages(msgs)       // created_at ascending
package model
