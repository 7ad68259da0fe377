// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"testing"
	"time"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestSortConversations_NewestFirst(t *testing.T) {
	convs := []Conversation{
		{ChatID: "b", CreatedAt: at(1)},
		{ChatID: "c", CreatedAt: at(3)},
		{ChatID: "a", CreatedAt: at(2)},
		{ChatID: "d", CreatedAt: at(3)},
	}
	SortConversations(convs)

	want := []string{"c", "d", "a", "b"}
	for i, id := range want {
		if convs[i].ChatID != id {
			t.Fatalf("position %d = %q, want %q (order %v)", i, convs[i].ChatID, id, convs)
		}
	}
}

func TestSortMessages_OldestFirstStable(t *testing.T) {
	msgs := []Message{
		{Content: "late", CreatedAt: at(5)},
		{Content: "first-tie", CreatedAt: at(1)},
		{Content: "second-tie", CreatedAt: at(1)},
		{Content: "early", CreatedAt: at(0)},
	}
	SortMessages(msgs)

	want := []string{"early", "first-tie", "second-tie", "late"}
	for i, content := range want {
		if msgs[i].Content != content {
			t.Errorf("position %d = %q, want %q", i, msgs[i].Content, content)
		}
	}
}

func TestOldest(t *testing.T) {
	if _, ok := OldestConversation(nil); ok {
		t.Error("OldestConversation(nil) should report ok=false")
	}
	if _, ok := OldestMessage(nil); ok {
		t.Error("OldestMessage(nil) should report ok=false")
	}

	oldest, ok := OldestConversation([]Conversation{{CreatedAt: at(4)}, {CreatedAt: at(-2)}, {CreatedAt: at(1)}})
	if !ok || !oldest.Equal(at(-2)) {
		t.Errorf("OldestConversation = %v, %v; want %v", oldest, ok, at(-2))
	}

	oldest, ok = OldestMessage([]Message{{CreatedAt: at(7)}, {CreatedAt: at(3)}})
	if !ok || !oldest.Equal(at(3)) {
		t.Errorf("OldestMessage = %v, %v; want %v", oldest, ok, at(3))
	}
}

// =============================================================================
// TYPE HELPER TESTS
// =============================================================================

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"user", RoleUser},
		{"assistant", RoleAssistant},
		{"system", RoleAssistant},
		{"", RoleAssistant},
	}
	for _, tc := range tests {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestConversation_DisplayTitle(t *testing.T) {
	if got := (Conversation{}).DisplayTitle(); got != DefaultTitle {
		t.Errorf("empty title = %q, want %q", got, DefaultTitle)
	}
	if got := (Conversation{Title: "line one\r\nline two"}).DisplayTitle(); got != "line one line two" {
		t.Errorf("multi-line title = %q", got)
	}
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "hi")
	if msg.ID == "" {
		t.Error("expected generated ID")
	}
	if !msg.Local {
		t.Error("NewMessage should mark the message as local")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if !msg.IsUser() {
		t.Error("expected user role")
	}
}
