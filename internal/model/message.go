// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label rendered next to a message.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "AI"
	default:
		return string(r)
	}
}

// ParseRole maps a wire role onto a known role.
// Anything that is not "user" is rendered as the assistant.
func ParseRole(s string) Role {
	if Role(s) == RoleUser {
		return RoleUser
	}
	return RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single transcript entry.
type Message struct {
	// ID is assigned client-side and only identifies the entry for rendering.
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Local marks entries that never came from the history endpoint:
	// optimistic user messages, replies and client-side notices.
	Local bool `json:"-"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
		Local:     true,
	}
}

// NewNotice creates an assistant-style client-side notice.
func NewNotice(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// IsUser returns true if this is a user message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
