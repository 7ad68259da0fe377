// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// DefaultTitle is shown for conversations the server returned without a title.
const DefaultTitle = "New conversation"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is one entry of a user's conversation list.
// Conversations are unique by ChatID.
type Conversation struct {
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayTitle returns the title with newlines collapsed, or DefaultTitle.
func (c Conversation) DisplayTitle() string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return DefaultTitle
	}
	title = strings.ReplaceAll(title, "\r", "")
	return strings.ReplaceAll(title, "\n", " ")
}

// =============================================================================
// USER TYPE
// =============================================================================

// User is the identity returned by the login and register endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// IsZero reports whether the user carries no identity.
func (u User) IsZero() bool {
	return u.ID == "" && u.Username == ""
}

// =============================================================================
// PAGING TYPES
// =============================================================================

// PageQuery bounds a history fetch.
type PageQuery struct {
	// Limit is the page size sent to the server.
	Limit int
	// Before asks for items strictly older than this instant.
	// The zero value requests the newest page.
	Before time.Time
}

// HasBefore reports whether the query carries an older-than cursor.
func (q PageQuery) HasBefore() bool {
	return !q.Before.IsZero()
}

// Reply is the server's answer to a sent message.
type Reply struct {
	// ChatID is set by the create-conversation endpoint only.
	ChatID  string
	Content string
}
