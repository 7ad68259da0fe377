// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the state of one signed-in user: the conversation
// list, per-conversation transcripts, and the active conversation.
//
// A Session is not safe for concurrent use. In the TUI it is owned by the
// Bubble Tea Update loop; network calls run as commands and their results
// are applied back through the ticket-based methods.
//
// # Key Types
//
//   - Session: Active conversation, paginators and persisted state
//   - Backend: The chat service operations a session uses
//   - SendTicket: One issued send, applied with CompleteSend
//
// # Usage
//
//	sess := session.New(user, client, session.Options{Store: store})
//	t, msg, err := sess.BeginSend("hello")
//	reply, err := client.SendMessage(ctx, t.ChatID, t.Content)
//	result := sess.CompleteSend(t, reply, err)
package session
