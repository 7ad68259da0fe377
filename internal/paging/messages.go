// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package paging

import (
	"context"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

// DefaultMessagePageSize is used when Histories is created with size <= 0.
const DefaultMessagePageSize = 20

// HistoryLoadFailed is the transcript notice appended when a history page
// cannot be loaded.
const HistoryLoadFailed = "Could not load the chat history. You can still send new messages."

// MessageFetcher loads one page of a conversation's history.
type MessageFetcher func(ctx context.Context, chatID string, q model.PageQuery) ([]model.Message, error)

// LoadOptions controls a history load.
type LoadOptions struct {
	// Prepend inserts the page above the current transcript; the view keeps
	// its scroll anchor.
	Prepend bool
	// Reset clears the conversation's cursor and transcript first.
	Reset bool
}

// MessageResult describes what an applied history page changed.
type MessageResult struct {
	ChatID  string
	Prepend bool
	// Added is the number of messages merged into the transcript.
	Added int
	Done  bool
	Stale bool
	Err   error
}

// history is the state of one conversation.
type history struct {
	cursor   Cursor
	messages []model.Message
	// unsynced holds the ids of adopted local entries whose server copy
	// has not been seen yet.
	unsynced map[string]bool
}

// claim replaces the adopted local entry matching msg with msg itself.
// It returns false when no unsynced entry matches.
func (hist *history) claim(msg model.Message) bool {
	for i, local := range hist.messages {
		if !hist.unsynced[local.ID] {
			continue
		}
		if local.Role != msg.Role || local.Content != msg.Content {
			continue
		}
		delete(hist.unsynced, local.ID)
		hist.messages[i] = msg
		return true
	}
	return false
}

// =============================================================================
// HISTORIES
// =============================================================================

// Histories holds the message pagination state of every opened conversation,
// keyed by chat id. Entries are created lazily.
//
// The empty chat id is the draft: messages sent before the server assigned
// an id to the conversation.
type Histories struct {
	pageSize int
	byChat   map[string]*history
}

// NewHistories creates an empty set of histories.
func NewHistories(pageSize int) *Histories {
	if pageSize <= 0 {
		pageSize = DefaultMessagePageSize
	}
	return &Histories{
		pageSize: pageSize,
		byChat:   make(map[string]*history),
	}
}

func (h *Histories) get(chatID string) *history {
	hist, ok := h.byChat[chatID]
	if !ok {
		hist = &history{}
		h.byChat[chatID] = hist
	}
	return hist
}

// Next issues a ticket for the next older page of chatID.
// With opts.Reset the cursor and transcript are cleared first, which also
// invalidates any ticket still in flight for this conversation.
func (h *Histories) Next(chatID string, opts LoadOptions) (Ticket, bool) {
	if chatID == "" {
		return Ticket{}, false
	}
	hist := h.get(chatID)
	if opts.Reset {
		hist.cursor.reset()
		hist.messages = nil
		hist.unsynced = nil
	}
	t, ok := hist.cursor.begin(chatID, h.pageSize)
	if !ok {
		return Ticket{}, false
	}
	t.Prepend = opts.Prepend
	return t, true
}

// Apply merges the outcome of the fetch issued for t.
func (h *Histories) Apply(t Ticket, page []model.Message, err error) MessageResult {
	hist := h.get(t.Key)
	result := MessageResult{ChatID: t.Key, Prepend: t.Prepend}

	if !hist.cursor.settle(t) {
		result.Stale = true
		result.Done = hist.cursor.Done
		return result
	}

	if err != nil {
		hist.messages = append(hist.messages, model.NewNotice(HistoryLoadFailed))
		result.Err = err
		result.Done = hist.cursor.Done
		return result
	}

	if len(page) == 0 {
		if t.Query.HasBefore() {
			hist.cursor.Done = true
		}
		result.Done = hist.cursor.Done
		return result
	}

	fresh := make([]model.Message, 0, len(page))
	claimed := 0
	for _, msg := range page {
		// Overlap guard: a paginated page may only contain older messages.
		if t.Query.HasBefore() && !msg.CreatedAt.Before(t.Query.Before) {
			continue
		}
		// A clock running ahead of the server can put the server copy of a
		// just-sent message before the adopted offset.
		if hist.claim(msg) {
			claimed++
			continue
		}
		fresh = append(fresh, msg)
	}

	if oldest, ok := model.OldestMessage(page); ok {
		hist.cursor.advance(oldest, len(fresh))
	}

	if len(fresh) > 0 || claimed > 0 {
		hist.messages = append(hist.messages, fresh...)
		model.SortMessages(hist.messages)
	}

	result.Added = len(fresh)
	result.Done = hist.cursor.Done
	return result
}

// LoadMore runs Next, fetch and Apply back to back.
// ok is false when the guard suppressed the load.
func (h *Histories) LoadMore(ctx context.Context, chatID string, opts LoadOptions, fetch MessageFetcher) (result MessageResult, ok bool) {
	t, ok := h.Next(chatID, opts)
	if !ok {
		return MessageResult{ChatID: chatID, Done: h.Cursor(chatID).Done}, false
	}
	page, err := fetch(ctx, chatID, t.Query)
	return h.Apply(t, page, err), true
}

// Append adds a local message (sent message, reply or notice) to chatID.
func (h *Histories) Append(chatID string, msg model.Message) {
	hist := h.get(chatID)
	hist.messages = append(hist.messages, msg)
	model.SortMessages(hist.messages)
}

// Adopt moves the transcript kept under from to the server-assigned id to.
// The cursor of to starts at the oldest adopted message, so paging does not
// fetch the messages that were just sent. Should the server still return one
// of them, it replaces the local entry instead of being shown twice.
func (h *Histories) Adopt(from, to string) {
	src := h.get(from)
	dst := h.get(to)
	dst.messages = append(dst.messages, src.messages...)
	model.SortMessages(dst.messages)
	dst.unsynced = make(map[string]bool, len(dst.messages))
	for _, msg := range dst.messages {
		if msg.Local {
			dst.unsynced[msg.ID] = true
		}
	}
	dst.cursor.reset()
	if oldest, ok := model.OldestMessage(dst.messages); ok {
		dst.cursor.Offset = oldest
	}
	delete(h.byChat, from)
}

// Discard drops all state of chatID.
func (h *Histories) Discard(chatID string) {
	delete(h.byChat, chatID)
}

// Messages returns the transcript of chatID, oldest first.
// The returned slice is a copy.
func (h *Histories) Messages(chatID string) []model.Message {
	hist, ok := h.byChat[chatID]
	if !ok {
		return nil
	}
	out := make([]model.Message, len(hist.messages))
	copy(out, hist.messages)
	return out
}

// Cursor returns a copy of the cursor of chatID.
func (h *Histories) Cursor(chatID string) Cursor {
	hist, ok := h.byChat[chatID]
	if !ok {
		return Cursor{}
	}
	return hist.cursor
}

// PageSize returns the configured page size.
func (h *Histories) PageSize() int {
	return h.pageSize
}
