// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

// =============================================================================
// REQUEST BODIES
// =============================================================================

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type newChatRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

type messageRequest struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// =============================================================================
// RESPONSE BODIES
// =============================================================================

type userResponse struct {
	ID       json.RawMessage `json:"id"`
	Username string          `json:"username"`
}

// userID accepts both numeric and string ids.
func (r userResponse) userID() string {
	raw := strings.TrimSpace(string(r.ID))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.ID, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(r.ID, &n); err == nil {
		return n.String()
	}
	return ""
}

type historyResponse struct {
	Conversations []conversationItem `json:"conversations"`
}

type conversationItem struct {
	ChatID    string `json:"chat_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type messagesResponse struct {
	Messages []messageItem `json:"messages"`
}

type messageItem struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type replyResponse struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type errorDetail struct {
	Msg string `json:"msg"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// timestampLayouts are tried in order. The service may omit the zone, in
// which case the time is taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a wire timestamp.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t the way the service expects in the before
// query parameter.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// conversations converts wire items, dropping entries without an id or a
// parseable timestamp. It returns the number of dropped entries.
func (r historyResponse) conversations() ([]model.Conversation, int) {
	out := make([]model.Conversation, 0, len(r.Conversations))
	dropped := 0
	for _, item := range r.Conversations {
		id := strings.TrimSpace(item.ChatID)
		created, ok := ParseTimestamp(item.CreatedAt)
		if id == "" || !ok {
			dropped++
			continue
		}
		out = append(out, model.Conversation{
			ChatID:    id,
			Title:     item.Title,
			CreatedAt: created,
		})
	}
	return out, dropped
}

// messages converts wire items, dropping entries without a parseable
// timestamp. Unknown roles are rendered as the assistant.
func (r messagesResponse) messages() ([]model.Message, int) {
	out := make([]model.Message, 0, len(r.Messages))
	dropped := 0
	for _, item := range r.Messages {
		created, ok := ParseTimestamp(item.CreatedAt)
		if !ok {
			dropped++
			continue
		}
		msg := model.NewMessage(model.ParseRole(item.Role), item.Content)
		msg.CreatedAt = created
		msg.Local = false
		out = append(out, msg)
	}
	return out, dropped
}
