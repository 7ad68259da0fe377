// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package paging

import (
	"context"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

// DefaultConversationPageSize is used when a pager is created with size <= 0.
const DefaultConversationPageSize = 10

// ConversationFetcher loads one page of the conversation list.
type ConversationFetcher func(ctx context.Context, q model.PageQuery) ([]model.Conversation, error)

// ListResult describes what an applied conversation page changed.
type ListResult struct {
	// Added is the number of conversations not seen before.
	Added int
	// Done is true once the end of the list was reached.
	Done bool
	// Stale is true when the page was discarded because the cursor was reset
	// after the ticket was issued.
	Stale bool
	// Empty is true when no conversations are known at all; the view shows
	// its empty state.
	Empty bool
	Err   error
}

// =============================================================================
// CONVERSATION PAGER
// =============================================================================

// ConversationPager accumulates the user's conversations, newest first,
// fetching older pages on demand.
type ConversationPager struct {
	pageSize int
	cursor   Cursor
	items    map[string]model.Conversation
	sorted   []model.Conversation
}

// NewConversationPager creates an empty pager.
func NewConversationPager(pageSize int) *ConversationPager {
	if pageSize <= 0 {
		pageSize = DefaultConversationPageSize
	}
	return &ConversationPager{
		pageSize: pageSize,
		items:    make(map[string]model.Conversation),
	}
}

// Next issues a ticket for the next older page. It returns false while a
// fetch is pending or after the end of the list was reached.
func (p *ConversationPager) Next() (Ticket, bool) {
	return p.cursor.begin("", p.pageSize)
}

// Apply merges the outcome of the fetch issued for t.
func (p *ConversationPager) Apply(t Ticket, page []model.Conversation, err error) ListResult {
	if !p.cursor.settle(t) {
		return ListResult{Stale: true, Done: p.cursor.Done, Empty: len(p.items) == 0}
	}

	if err != nil {
		return ListResult{Err: err, Done: p.cursor.Done, Empty: len(p.items) == 0}
	}

	if len(page) == 0 {
		if t.Query.HasBefore() {
			p.cursor.Done = true
		}
		return ListResult{Done: p.cursor.Done, Empty: len(p.items) == 0}
	}

	added := 0
	for _, conv := range page {
		if conv.ChatID == "" {
			continue
		}
		if _, seen := p.items[conv.ChatID]; seen {
			continue
		}
		p.items[conv.ChatID] = conv
		added++
	}
	if added > 0 {
		p.rebuild()
	}

	// The offset is recomputed over everything accumulated, not just this
	// page, so overlapping or out-of-order pages cannot move it forward.
	if oldest, ok := model.OldestConversation(p.sorted); ok {
		p.cursor.advance(oldest, added)
	}

	return ListResult{Added: added, Done: p.cursor.Done, Empty: len(p.items) == 0}
}

// LoadMore runs Next, fetch and Apply back to back.
// ok is false when the guard suppressed the load.
func (p *ConversationPager) LoadMore(ctx context.Context, fetch ConversationFetcher) (result ListResult, ok bool) {
	t, ok := p.Next()
	if !ok {
		return ListResult{Done: p.cursor.Done, Empty: len(p.items) == 0}, false
	}
	page, err := fetch(ctx, t.Query)
	return p.Apply(t, page, err), true
}

// Reset restarts pagination from the newest page. Accumulated conversations
// are kept; the next pages are merged into them.
func (p *ConversationPager) Reset() {
	p.cursor.reset()
}

// Clear drops every accumulated conversation and resets the cursor.
func (p *ConversationPager) Clear() {
	p.cursor.reset()
	p.items = make(map[string]model.Conversation)
	p.sorted = nil
}

// Conversations returns the accumulated list, newest first.
// The returned slice is a copy.
func (p *ConversationPager) Conversations() []model.Conversation {
	out := make([]model.Conversation, len(p.sorted))
	copy(out, p.sorted)
	return out
}

// Get returns the conversation with the given id.
func (p *ConversationPager) Get(chatID string) (model.Conversation, bool) {
	conv, ok := p.items[chatID]
	return conv, ok
}

// Len returns the number of accumulated conversations.
func (p *ConversationPager) Len() int {
	return len(p.items)
}

// Cursor returns a copy of the list cursor.
func (p *ConversationPager) Cursor() Cursor {
	return p.cursor
}

// PageSize returns the configured page size.
func (p *ConversationPager) PageSize() int {
	return p.pageSize
}

func (p *ConversationPager) rebuild() {
	p.sorted = make([]model.Conversation, 0, len(p.items))
	for _, conv := range p.items {
		p.sorted = append(p.sorted, conv)
	}
	model.SortConversations(p.sorted)
}
