// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/paging"
	"github.com/jeranaias/rigchat-tui/internal/session"
)

// ConversationsLoadedMsg carries one page of the conversation list.
type ConversationsLoadedMsg struct {
	Ticket        paging.Ticket
	Conversations []model.Conversation
	Err           error
}

// MessagesLoadedMsg carries one page of a conversation's history.
type MessagesLoadedMsg struct {
	Ticket   paging.Ticket
	Messages []model.Message
	Err      error
}

// SendCompletedMsg carries the reply to one sent message.
type SendCompletedMsg struct {
	Ticket session.SendTicket
	Reply  model.Reply
	Err    error
}

// LoggedOutMsg is emitted after the user signed out. The root model
// switches back to the login form.
type LoggedOutMsg struct {
	Err error
}
