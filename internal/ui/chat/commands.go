// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat-tui/internal/paging"
	"github.com/jeranaias/rigchat-tui/internal/session"
)

// Each command performs exactly one request. The session methods used here
// only read what was fixed when the session was created.

func fetchConversationsCmd(sess *session.Session, t paging.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		convs, err := sess.FetchConversations(ctx, t)
		return ConversationsLoadedMsg{Ticket: t, Conversations: convs, Err: err}
	}
}

func fetchMessagesCmd(sess *session.Session, t paging.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgs, err := sess.FetchMessages(ctx, t)
		return MessagesLoadedMsg{Ticket: t, Messages: msgs, Err: err}
	}
}

func deliverCmd(sess *session.Session, t session.SendTicket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := sess.Deliver(ctx, t)
		return SendCompletedMsg{Ticket: t, Reply: reply, Err: err}
	}
}

func logoutCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return LoggedOutMsg{Err: err}
	}
}
