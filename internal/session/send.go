// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/model"
)

// Transcript notices shown to the user.
const (
	Greeting             = "Hello! Start typing your question."
	NewConversationReady = "A new conversation is ready."
	DefaultReply         = "Message received!"
	SendNoResponse       = "The system did not respond."
	SendFailed           = "Something went wrong sending the message."
)

// SendTicket identifies one issued send.
type SendTicket struct {
	// ChatID is the target conversation, or "" when the send creates one.
	ChatID  string
	Content string

	draftGen uint64
}

// Creates reports whether the send goes to the create endpoint.
func (t SendTicket) Creates() bool {
	return t.ChatID == ""
}

// SendResult describes what a completed send changed.
type SendResult struct {
	// ChatID is the conversation the reply was stored under.
	ChatID string
	Reply  model.Message
	// Created is true when the draft became a server conversation and is
	// now active.
	Created bool
	// ReloadList asks the caller to fetch the conversation list again.
	ReloadList bool
	// Visible is true when ChatID is the active conversation.
	Visible bool
	Err     error
}

// BeginSend validates content and appends it to the active transcript as
// an optimistic user message before any request is made.
func (s *Session) BeginSend(content string) (SendTicket, model.Message, error) {
	content = norm.NFC.String(strings.TrimSpace(content))
	if content == "" {
		return SendTicket{}, model.Message{}, ErrEmptyMessage
	}
	if s.activeID == "" {
		if s.creating {
			return SendTicket{}, model.Message{}, ErrCreatePending
		}
		s.creating = true
	}

	msg := model.NewMessage(model.RoleUser, content)
	s.History.Append(s.activeID, msg)

	return SendTicket{
		ChatID:   s.activeID,
		Content:  content,
		draftGen: s.draftGen,
	}, msg, nil
}

// Deliver performs the request for t.
func (s *Session) Deliver(ctx context.Context, t SendTicket) (model.Reply, error) {
	if t.Creates() {
		return s.backend.CreateConversation(ctx, s.User.ID, t.Content)
	}
	return s.backend.SendMessage(ctx, t.ChatID, t.Content)
}

// CompleteSend applies the outcome of t. A failure appends a notice; the
// optimistic user message is kept.
func (s *Session) CompleteSend(t SendTicket, reply model.Reply, err error) SendResult {
	if t.Creates() {
		return s.completeCreate(t, reply, err)
	}

	result := SendResult{ChatID: t.ChatID, Err: err}
	if err != nil {
		result.Reply = model.NewNotice(failureNotice(err))
	} else {
		result.Reply = model.NewMessage(model.RoleAssistant, replyText(reply))
	}
	s.History.Append(t.ChatID, result.Reply)
	result.Visible = t.ChatID == s.activeID
	return result
}

func (s *Session) completeCreate(t SendTicket, reply model.Reply, err error) SendResult {
	current := t.draftGen == s.draftGen
	if current {
		s.creating = false
	}

	if err != nil {
		result := SendResult{Err: err, Reply: model.NewNotice(failureNotice(err))}
		if current {
			s.History.Append("", result.Reply)
			result.Visible = s.activeID == ""
		}
		return result
	}

	result := SendResult{
		ChatID:     reply.ChatID,
		Reply:      model.NewMessage(model.RoleAssistant, replyText(reply)),
		ReloadList: true,
	}
	s.List.Reset()

	switch {
	case reply.ChatID == "":
		// No id to adopt; keep the exchange on the draft.
		s.logger.Warn("create returned no chat id")
		if current {
			s.History.Append("", result.Reply)
			result.Visible = s.activeID == ""
		}
	case current:
		s.History.Adopt("", reply.ChatID)
		s.History.Append(reply.ChatID, result.Reply)
		s.activeID = reply.ChatID
		s.persist()
		result.Created = true
		result.Visible = true
	default:
		// The user moved on; the new conversation shows up in the list.
		s.History.Append(reply.ChatID, result.Reply)
		result.Visible = reply.ChatID == s.activeID
	}
	return result
}

// Send runs BeginSend, Deliver and CompleteSend back to back. Validation
// errors are returned directly; delivery failures are reported in the
// result.
func (s *Session) Send(ctx context.Context, content string) (SendResult, error) {
	t, _, err := s.BeginSend(content)
	if err != nil {
		return SendResult{}, err
	}
	reply, err := s.Deliver(ctx, t)
	return s.CompleteSend(t, reply, err), nil
}

func replyText(reply model.Reply) string {
	if strings.TrimSpace(reply.Content) == "" {
		return DefaultReply
	}
	return reply.Content
}

func failureNotice(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return SendNoResponse
	}
	return SendFailed
}
