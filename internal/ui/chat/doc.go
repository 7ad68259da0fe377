// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view: a conversation sidebar, the
// transcript of the active conversation and the message input.
//
// The model owns a session.Session. Every network call runs in a tea.Cmd
// that returns one message (ConversationsLoadedMsg, MessagesLoadedMsg or
// SendCompletedMsg); Update applies it to the session's paginators. A
// response whose ticket went stale, or that belongs to a conversation that
// is no longer active, never changes what is on screen.
package chat
