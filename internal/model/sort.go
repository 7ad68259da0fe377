// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"time"
)

// =============================================================================
// ORDERING
// =============================================================================

// SortConversations orders conversations newest first.
// Equal timestamps fall back to ChatID so the order is deterministic.
func SortConversations(convs []Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		if convs[i].CreatedAt.Equal(convs[j].CreatedAt) {
			return convs[i].ChatID < convs[j].ChatID
		}
		return convs[i].CreatedAt.After(convs[j].CreatedAt)
	})
}

// SortMessages orders messages oldest first.
// The sort is stable: messages with equal timestamps keep their insertion order.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}

// OldestConversation returns the smallest CreatedAt in convs.
// ok is false when convs is empty.
func OldestConversation(convs []Conversation) (oldest time.Time, ok bool) {
	for i, c := range convs {
		if i == 0 || c.CreatedAt.Before(oldest) {
			oldest = c.CreatedAt
		}
	}
	return oldest, len(convs) > 0
}

// OldestMessage returns the smallest CreatedAt in msgs.
// ok is false when msgs is empty.
func OldestMessage(msgs []Message) (oldest time.Time, ok bool) {
	for i, m := range msgs {
		if i == 0 || m.CreatedAt.Before(oldest) {
			oldest = m.CreatedAt
		}
	}
	return oldest, len(msgs) > 0
}
