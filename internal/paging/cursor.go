// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package paging

import (
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

// =============================================================================
// CURSOR
// =============================================================================

// Cursor is the pagination state of one key (the list, or one conversation).
//
// Offset only moves strictly backward in time. Loading and Done are never
// both true.
type Cursor struct {
	// Offset is the oldest created_at seen so far. Zero means no page was
	// loaded yet.
	Offset  time.Time
	Loading bool
	Done    bool

	generation uint64
}

// HasOffset reports whether at least one page moved the cursor.
func (c Cursor) HasOffset() bool {
	return !c.Offset.IsZero()
}

// Ticket identifies one issued fetch.
type Ticket struct {
	// Key is the chat id for message loads and empty for the list.
	Key     string
	Query   model.PageQuery
	Prepend bool

	generation uint64
}

// begin marks the cursor loading and issues a ticket.
// It returns false if a fetch is already pending or the end was reached.
func (c *Cursor) begin(key string, limit int) (Ticket, bool) {
	if c.Loading || c.Done {
		return Ticket{}, false
	}
	c.Loading = true
	return Ticket{
		Key:        key,
		Query:      model.PageQuery{Limit: limit, Before: c.Offset},
		generation: c.generation,
	}, true
}

// settle clears the loading flag for t. It returns false when t was issued
// before the last reset, in which case the cursor is left untouched.
func (c *Cursor) settle(t Ticket) bool {
	if t.generation != c.generation {
		return false
	}
	c.Loading = false
	return true
}

// advance moves the offset back to oldest. A page that does not reach
// further back than the current offset and brought nothing new ends the
// pagination; one that did add entries leaves the offset where it is.
func (c *Cursor) advance(oldest time.Time, added int) {
	if c.HasOffset() && !oldest.Before(c.Offset) {
		if added == 0 {
			c.Done = true
		}
		return
	}
	c.Offset = oldest
}

// reset forgets the offset and invalidates outstanding tickets.
func (c *Cursor) reset() {
	c.Offset = time.Time{}
	c.Loading = false
	c.Done = false
	c.generation++
}
