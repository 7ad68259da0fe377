// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package paging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func minute(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Minute)
}

// fakeList serves a fixed conversation set newest first, honoring limit and
// before like the real endpoint.
type fakeList struct {
	all     []model.Conversation
	calls   []model.PageQuery
	failing bool
}

func newFakeList(n int) *fakeList {
	f := &fakeList{}
	for i := 0; i < n; i++ {
		f.all = append(f.all, model.Conversation{
			ChatID:    fmt.Sprintf("chat-%02d", i),
			Title:     fmt.Sprintf("Chat %d", i),
			CreatedAt: minute(1000 - i),
		})
	}
	return f
}

func (f *fakeList) fetch(_ context.Context, q model.PageQuery) ([]model.Conversation, error) {
	f.calls = append(f.calls, q)
	if f.failing {
		return nil, errors.New("network down")
	}
	var page []model.Conversation
	for _, c := range f.all {
		if q.HasBefore() && !c.CreatedAt.Before(q.Before) {
			continue
		}
		page = append(page, c)
		if len(page) == q.Limit {
			break
		}
	}
	return page, nil
}

// =============================================================================
// PAGINATION SCENARIOS
// =============================================================================

func TestConversationPager_ThreePagesThenStops(t *testing.T) {
	src := newFakeList(13)
	p := NewConversationPager(10)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		p.LoadMore(ctx, src.fetch)
	}

	require.Len(t, src.calls, 3, "pager must stop after the empty page")
	assert.Equal(t, 13, p.Len())
	assert.False(t, src.calls[0].HasBefore(), "first request carries no cursor")
	assert.True(t, src.calls[1].Before.Equal(minute(991)), "second request uses oldest of first page")
	assert.True(t, src.calls[2].Before.Equal(minute(988)))
	assert.True(t, p.Cursor().Done)
	assert.False(t, p.Cursor().Loading)
	for _, q := range src.calls {
		assert.Equal(t, 10, q.Limit)
	}
}

func TestConversationPager_GuardWhileLoading(t *testing.T) {
	p := NewConversationPager(10)

	first, ok := p.Next()
	require.True(t, ok)

	_, ok = p.Next()
	assert.False(t, ok, "second Next during a pending fetch must be suppressed")

	p.Apply(first, []model.Conversation{{ChatID: "a", CreatedAt: minute(1)}}, nil)
	_, ok = p.Next()
	assert.True(t, ok, "Next is allowed again once the fetch settled")
}

func TestConversationPager_NoDuplicates(t *testing.T) {
	p := NewConversationPager(3)
	pages := [][]model.Conversation{
		{{ChatID: "a", CreatedAt: minute(10)}, {ChatID: "b", CreatedAt: minute(9)}, {ChatID: "c", CreatedAt: minute(8)}},
		{{ChatID: "c", CreatedAt: minute(8)}, {ChatID: "d", CreatedAt: minute(7)}, {ChatID: "a", CreatedAt: minute(10)}},
		{{ChatID: "e", CreatedAt: minute(6)}, {ChatID: "d", CreatedAt: minute(7)}},
	}

	for _, page := range pages {
		tk, ok := p.Next()
		require.True(t, ok)
		p.Apply(tk, page, nil)
	}

	seen := map[string]bool{}
	for _, c := range p.Conversations() {
		assert.False(t, seen[c.ChatID], "duplicate chat id %s", c.ChatID)
		seen[c.ChatID] = true
	}
	assert.Equal(t, 5, p.Len())
}

func TestConversationPager_DescendingRegardlessOfArrivalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		p := NewConversationPager(4)
		var all []model.Conversation
		for i := 0; i < 12; i++ {
			all = append(all, model.Conversation{ChatID: fmt.Sprintf("c%d", i), CreatedAt: minute(rng.Intn(50))})
		}
		rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

		for start := 0; start < len(all); start += 4 {
			tk, ok := p.Next()
			if !ok {
				break
			}
			p.Apply(tk, all[start:start+4], nil)
		}

		convs := p.Conversations()
		for i := 1; i < len(convs); i++ {
			assert.False(t, convs[i].CreatedAt.After(convs[i-1].CreatedAt),
				"round %d: %v is newer than its predecessor %v", round, convs[i].CreatedAt, convs[i-1].CreatedAt)
		}
	}
}

func TestConversationPager_OffsetIsOldestAcrossAccumulatedSet(t *testing.T) {
	p := NewConversationPager(2)

	tk, _ := p.Next()
	p.Apply(tk, []model.Conversation{{ChatID: "a", CreatedAt: minute(10)}, {ChatID: "b", CreatedAt: minute(5)}}, nil)
	require.True(t, p.Cursor().Offset.Equal(minute(5)))

	// An out-of-order page mixing a newer and an older conversation.
	tk, _ = p.Next()
	p.Apply(tk, []model.Conversation{{ChatID: "c", CreatedAt: minute(20)}, {ChatID: "d", CreatedAt: minute(3)}}, nil)
	assert.True(t, p.Cursor().Offset.Equal(minute(3)))
	assert.False(t, p.Cursor().Done)
}

func TestConversationPager_PageWithoutProgressEnds(t *testing.T) {
	p := NewConversationPager(2)

	tk, _ := p.Next()
	p.Apply(tk, []model.Conversation{{ChatID: "a", CreatedAt: minute(10)}}, nil)

	tk, _ = p.Next()
	result := p.Apply(tk, []model.Conversation{{ChatID: "a", CreatedAt: minute(10)}}, nil)
	assert.True(t, result.Done, "a page that reaches no further back ends pagination")
	assert.True(t, p.Cursor().Offset.Equal(minute(10)), "offset never moves forward")

	_, ok := p.Next()
	assert.False(t, ok)
}

func TestConversationPager_OutOfOrderPageWithNewItemsContinues(t *testing.T) {
	pages := [][]model.Conversation{
		{{ChatID: "a", CreatedAt: minute(10)}, {ChatID: "b", CreatedAt: minute(9)}},
		{{ChatID: "z", CreatedAt: minute(20)}},
		{{ChatID: "c", CreatedAt: minute(5)}},
	}
	var calls []model.PageQuery
	fetch := func(_ context.Context, q model.PageQuery) ([]model.Conversation, error) {
		calls = append(calls, q)
		if len(calls) > len(pages) {
			return nil, nil
		}
		return pages[len(calls)-1], nil
	}

	p := NewConversationPager(2)
	ctx := context.Background()

	p.LoadMore(ctx, fetch)
	result, ok := p.LoadMore(ctx, fetch)
	require.True(t, ok)
	assert.Equal(t, 1, result.Added)
	assert.False(t, result.Done, "a page that added conversations keeps pagination open")
	assert.True(t, p.Cursor().Offset.Equal(minute(9)), "offset never moves forward")

	_, ok = p.LoadMore(ctx, fetch)
	require.True(t, ok, "the next older page must still be requested")
	require.Len(t, calls, 3)
	assert.True(t, calls[2].Before.Equal(minute(9)))
	assert.Equal(t, 4, p.Len())
	assert.True(t, p.Cursor().Offset.Equal(minute(5)))
}

func TestConversationPager_InitialEmptyPageIsNotDone(t *testing.T) {
	p := NewConversationPager(10)

	tk, _ := p.Next()
	result := p.Apply(tk, nil, nil)
	assert.False(t, result.Done, "an empty first page does not end pagination")
	assert.True(t, result.Empty)

	_, ok := p.Next()
	assert.True(t, ok)
}

func TestConversationPager_ErrorLeavesCursor(t *testing.T) {
	src := newFakeList(15)
	p := NewConversationPager(10)
	ctx := context.Background()

	p.LoadMore(ctx, src.fetch)
	before := p.Cursor()

	src.failing = true
	result, ok := p.LoadMore(ctx, src.fetch)
	require.True(t, ok)
	require.Error(t, result.Err)
	assert.False(t, result.Empty, "conversations exist, so no empty state")
	assert.Equal(t, before.Offset, p.Cursor().Offset)
	assert.False(t, p.Cursor().Done)
	assert.False(t, p.Cursor().Loading)

	src.failing = false
	result, ok = p.LoadMore(ctx, src.fetch)
	require.True(t, ok)
	assert.NoError(t, result.Err)
	assert.Equal(t, 15, p.Len(), "retry after an error resumes from the same offset")
}

func TestConversationPager_ErrorOnFirstLoadReportsEmpty(t *testing.T) {
	src := newFakeList(3)
	src.failing = true
	p := NewConversationPager(10)

	result, _ := p.LoadMore(context.Background(), src.fetch)
	assert.Error(t, result.Err)
	assert.True(t, result.Empty)
}

func TestConversationPager_ResetDiscardsInflightAndResumes(t *testing.T) {
	p := NewConversationPager(2)

	tk, _ := p.Next()
	p.Apply(tk, []model.Conversation{{ChatID: "a", CreatedAt: minute(10)}, {ChatID: "b", CreatedAt: minute(9)}}, nil)

	stale, ok := p.Next()
	require.True(t, ok)

	p.Reset()
	result := p.Apply(stale, []model.Conversation{{ChatID: "z", CreatedAt: minute(1)}}, nil)
	assert.True(t, result.Stale)
	_, found := p.Get("z")
	assert.False(t, found, "stale page must not be merged")

	fresh, ok := p.Next()
	require.True(t, ok)
	assert.False(t, fresh.Query.HasBefore(), "after reset the newest page is requested")

	p.Apply(fresh, []model.Conversation{{ChatID: "new", CreatedAt: minute(30)}, {ChatID: "a", CreatedAt: minute(10)}}, nil)
	assert.Equal(t, "new", p.Conversations()[0].ChatID)
	assert.True(t, p.Cursor().Offset.Equal(minute(9)), "resumes below everything accumulated")
}

func TestConversationPager_Clear(t *testing.T) {
	p := NewConversationPager(2)
	tk, _ := p.Next()
	p.Apply(tk, []model.Conversation{{ChatID: "a", CreatedAt: minute(1)}}, nil)

	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.Empty(t, p.Conversations())
	assert.False(t, p.Cursor().HasOffset())
}

func TestNewConversationPager_DefaultPageSize(t *testing.T) {
	assert.Equal(t, DefaultConversationPageSize, NewConversationPager(0).PageSize())
}
