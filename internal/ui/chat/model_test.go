// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/session"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeBackend pages like the chat service: newest first, strictly older
// than Before.
type fakeBackend struct {
	conversations []model.Conversation
	messages      map[string][]model.Message
	createID      string

	listCalls int
	msgCalls  int
}

func (f *fakeBackend) ListConversations(_ context.Context, _ string, q model.PageQuery) ([]model.Conversation, error) {
	f.listCalls++
	var page []model.Conversation
	for _, c := range f.conversations {
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

func (f *fakeBackend) ListMessages(_ context.Context, chatID string, q model.PageQuery) ([]model.Message, error) {
	f.msgCalls++
	all := f.messages[chatID]
	var older []model.Message
	for _, msg := range all {
		if q.HasBefore() && !msg.CreatedAt.Before(q.Before) {
			continue
		}
		older = append(older, msg)
	}
	if len(older) > q.Limit {
		older = older[len(older)-q.Limit:]
	}
	return older, nil
}

func (f *fakeBackend) CreateConversation(_ context.Context, _ string, content string) (model.Reply, error) {
	conv := model.Conversation{ChatID: f.createID, Title: content, CreatedAt: base.Add(time.Hour)}
	f.conversations = append([]model.Conversation{conv}, f.conversations...)
	return model.Reply{ChatID: f.createID, Content: "created reply"}, nil
}

func (f *fakeBackend) SendMessage(_ context.Context, chatID, content string) (model.Reply, error) {
	return model.Reply{ChatID: chatID, Content: "pong"}, nil
}

func conversations(n int) []model.Conversation {
	convs := make([]model.Conversation, n)
	for i := range convs {
		convs[i] = model.Conversation{
			ChatID:    fmt.Sprintf("c%d", i+1),
			Title:     fmt.Sprintf("Conversation %d", i+1),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
		}
	}
	return convs
}

func history(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{
			ID:        fmt.Sprintf("m%d", i+1),
			Role:      role,
			Content:   fmt.Sprintf("message %d", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return msgs
}

func newChat(t *testing.T, backend *fakeBackend, width, height int) Model {
	t.Helper()
	sess := session.New(model.User{ID: "u1", Username: "bob"}, backend, session.Options{
		ConversationPageSize: 2,
		MessagePageSize:      2,
	})
	m := New(Options{
		Theme:             styles.NewTheme(styles.ModeDark),
		Session:           sess,
		Timeout:           time.Second,
		PrefetchThreshold: 2,
	})
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.SetSize(width, height)
	return m
}

// drive runs cmd and feeds every request result back into the model until
// no request is left.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case ConversationsLoadedMsg, MessagesLoadedMsg, SendCompletedMsg:
			updated, next := m.Update(msg)
			m = updated.(Model)
			queue = append(queue, next)
		}
	}
	return m
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeText(m Model, s string) Model {
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// =============================================================================
// CONVERSATION LIST
// =============================================================================

func TestLoadConversationsGuardsPendingRequest(t *testing.T) {
	backend := &fakeBackend{conversations: conversations(2)}
	m := newChat(t, backend, 100, 30)

	// New already issued the first page.
	assert.Nil(t, m.loadConversations())

	m = drive(t, m, m.Init())
	assert.Equal(t, 2, m.sess.List.Len())
	assert.Contains(t, m.View(), "Conversation 1")
}

func TestEmptyListShowsFallback(t *testing.T) {
	m := newChat(t, &fakeBackend{}, 100, 30)
	m = drive(t, m, m.Init())

	assert.Equal(t, 0, m.sess.List.Len())
	assert.Contains(t, m.View(), EmptyList)
}

func TestPrefetchStopsOutsideThreshold(t *testing.T) {
	backend := &fakeBackend{conversations: conversations(6)}
	m := newChat(t, backend, 100, 30)
	m = drive(t, m, m.Init())

	// Two rows are within the threshold of the cursor, so one more page
	// was fetched; four rows are not.
	assert.Equal(t, 4, m.sess.List.Len())
	assert.Equal(t, 2, backend.listCalls)

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd)
	m = drive(t, m, cmd)
	assert.Equal(t, 6, m.sess.List.Len())
}

func TestAnchorTopAfterListGrows(t *testing.T) {
	backend := &fakeBackend{conversations: conversations(4)}
	m := newChat(t, backend, 100, 30)
	m = drive(t, m, m.Init())
	require.Equal(t, 4, m.sess.List.Len())

	m.top, m.selected = 1, 1
	require.Equal(t, "c2", m.rowID(m.top))

	newest := model.Conversation{ChatID: "c0", Title: "Newest", CreatedAt: base.Add(time.Hour)}
	backend.conversations = append([]model.Conversation{newest}, backend.conversations...)
	m.sess.List.Reset()
	m = drive(t, m, m.loadConversations())

	assert.Equal(t, "c0", m.rowID(0))
	assert.Equal(t, "c2", m.rowID(m.top))
	assert.Equal(t, "c2", m.rowID(m.selected))
}

// =============================================================================
// MESSAGE HISTORY
// =============================================================================

func TestOpenConversationLoadsNewestPage(t *testing.T) {
	backend := &fakeBackend{
		conversations: conversations(1),
		messages:      map[string][]model.Message{"c1": history(4)},
	}
	m := newChat(t, backend, 100, 30)
	m = drive(t, m, m.Init())

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = drive(t, m, cmd)

	assert.Equal(t, "c1", m.sess.ActiveID())
	view := m.viewport.View()
	assert.Contains(t, view, "message 4")
	assert.Contains(t, view, "message 3")
	assert.NotContains(t, view, "message 2")
	assert.Equal(t, focusInput, m.focus)
}

func TestInactiveAndStaleHistoryNotRendered(t *testing.T) {
	backend := &fakeBackend{messages: map[string][]model.Message{
		"a": {{ID: "a1", Role: model.RoleUser, Content: "from a", CreatedAt: base}},
		"b": {{ID: "b1", Role: model.RoleUser, Content: "from b", CreatedAt: base}},
	}}
	m := newChat(t, backend, 100, 30)

	ticketA, ok := m.sess.Select("a")
	require.True(t, ok)
	ticketB, ok := m.sess.Select("b")
	require.True(t, ok)

	m, _ = update(m, MessagesLoadedMsg{Ticket: ticketA, Messages: backend.messages["a"]})
	assert.NotContains(t, m.viewport.View(), "from a")

	m, _ = update(m, MessagesLoadedMsg{Ticket: ticketB, Messages: backend.messages["b"]})
	assert.Contains(t, m.viewport.View(), "from b")

	// Reopening a resets its cursor, so the first ticket is stale.
	_, ok = m.sess.Select("a")
	require.True(t, ok)
	m, _ = update(m, MessagesLoadedMsg{Ticket: ticketA, Messages: backend.messages["a"]})
	assert.Empty(t, m.sess.Transcript())
}

func TestPrependKeepsViewportAnchored(t *testing.T) {
	backend := &fakeBackend{messages: map[string][]model.Message{"c1": history(6)}}
	m := newChat(t, backend, 100, 12)

	ticket, ok := m.sess.Select("c1")
	require.True(t, ok)
	m = drive(t, m, fetchMessagesCmd(m.sess, ticket, time.Second))
	before := m.viewport.TotalLineCount()
	require.Equal(t, 0, m.viewport.YOffset)

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyUp})
	require.NotNil(t, cmd)
	m = drive(t, m, cmd)

	after := m.viewport.TotalLineCount()
	require.Greater(t, after, before)
	assert.Equal(t, after-before, m.viewport.YOffset)
	assert.Len(t, m.sess.Transcript(), 4)
}

func TestAnchoredOffset(t *testing.T) {
	tests := []struct {
		offset, before, after, want int
	}{
		{0, 10, 25, 15},
		{3, 10, 10, 3},
		{2, 10, 4, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, anchoredOffset(tt.offset, tt.before, tt.after))
	}
}

// =============================================================================
// SEND
// =============================================================================

func TestGreetingOnEmptyDraft(t *testing.T) {
	m := newChat(t, &fakeBackend{}, 100, 30)
	view := m.View()
	assert.Contains(t, view, "Hello, bob")
	assert.Contains(t, view, session.Greeting)
}

func TestSendOnDraftCreatesConversation(t *testing.T) {
	backend := &fakeBackend{conversations: conversations(1), createID: "new1"}
	m := newChat(t, backend, 100, 30)
	m = drive(t, m, m.Init())
	calls := backend.listCalls

	m = typeText(m, "hello there")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	// The user message is on screen before the request completes.
	assert.Contains(t, m.viewport.View(), "hello there")
	assert.Empty(t, m.input.Value())

	m = drive(t, m, cmd)
	assert.Equal(t, "new1", m.sess.ActiveID())
	assert.Contains(t, m.viewport.View(), "created reply")
	assert.Greater(t, backend.listCalls, calls)
	assert.Equal(t, "new1", m.rowID(m.selected))
}

func TestSecondDraftSendWaitsForCreate(t *testing.T) {
	m := newChat(t, &fakeBackend{createID: "new1"}, 100, 30)

	m = typeText(m, "first")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m = typeText(m, "second")
	m, second := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
	assert.Equal(t, CreatePending, m.Status())
	assert.Equal(t, "second", m.input.Value())
}

func TestEmptySendIgnored(t *testing.T) {
	m := newChat(t, &fakeBackend{}, 100, 30)
	m = typeText(m, "   ")
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.sess.Transcript())
}

func TestNewChatShowsReadyNotice(t *testing.T) {
	m := newChat(t, &fakeBackend{}, 100, 30)
	m, _ = update(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.True(t, strings.Contains(m.viewport.View(), session.NewConversationReady))
	assert.Equal(t, "", m.sess.ActiveID())
}

func TestLogoutEmitsMsg(t *testing.T) {
	m := newChat(t, &fakeBackend{}, 100, 30)
	_, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)
	msg, ok := cmd().(LoggedOutMsg)
	require.True(t, ok)
	assert.NoError(t, msg.Err)
}
