// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigchat-tui/internal/session"
)

// Update handles terminal events and request results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ConversationsLoadedMsg:
		return m.handleConversationsLoaded(msg)

	case MessagesLoadedMsg:
		return m.handleMessagesLoaded(msg)

	case SendCompletedMsg:
		return m.handleSendCompleted(msg)

	case spinner.TickMsg:
		if !m.busy() {
			m.ticking = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if msg.Type != tea.MouseWheelUp && msg.Type != tea.MouseWheelDown {
			return m, nil
		}
		return m.scrollViewport(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// RESULTS
// =============================================================================

func (m Model) handleConversationsLoaded(msg ConversationsLoadedMsg) (tea.Model, tea.Cmd) {
	topID, selID := m.rowID(m.top), m.rowID(m.selected)

	res := m.sess.List.Apply(msg.Ticket, msg.Conversations, msg.Err)
	if res.Stale {
		return m, nil
	}
	m.listErr = res.Err
	if res.Err != nil {
		m.logger.Warn("conversation list load failed", "err", res.Err)
	}

	m.anchorTop(topID, selID)
	if m.selectOnLoad != "" {
		if idx := m.rowIndex(m.selectOnLoad); idx >= 0 {
			m.selected = idx
			m.selectOnLoad = ""
			m.ensureVisible()
		}
	}

	var cmd tea.Cmd
	if res.Added > 0 {
		cmd = m.maybePrefetch()
	}
	return m, cmd
}

func (m Model) handleMessagesLoaded(msg MessagesLoadedMsg) (tea.Model, tea.Cmd) {
	before := m.viewport.TotalLineCount()
	offset := m.viewport.YOffset

	res := m.sess.History.Apply(msg.Ticket, msg.Messages, msg.Err)
	if res.Stale || res.ChatID != m.sess.ActiveID() {
		return m, nil
	}
	if res.Err != nil {
		m.logger.Warn("history load failed", "chat_id", res.ChatID, "err", res.Err)
	}

	m.refreshTranscript()
	if res.Prepend {
		m.viewport.SetYOffset(anchoredOffset(offset, before, m.viewport.TotalLineCount()))
	} else {
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleSendCompleted(msg SendCompletedMsg) (tea.Model, tea.Cmd) {
	if m.sending > 0 {
		m.sending--
	}
	res := m.sess.CompleteSend(msg.Ticket, msg.Reply, msg.Err)
	if res.Err != nil {
		m.logger.Warn("send failed", "chat_id", msg.Ticket.ChatID, "err", res.Err)
	}

	var cmd tea.Cmd
	if res.Created {
		m.selectOnLoad = res.ChatID
	}
	if res.ReloadList {
		cmd = tea.Batch(m.loadConversations(), m.startSpinner())
	}
	if res.Visible {
		m.refreshTranscript()
		m.viewport.GotoBottom()
	}
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		err := m.sess.Logout()
		return m, logoutCmd(err)

	case key.Matches(msg, m.keys.NewChat):
		m.sess.NewConversation()
		m.status = ""
		m.refreshTranscript()
		m.viewport.GotoBottom()
		cmd := m.setFocus(focusInput)
		return m, cmd

	case key.Matches(msg, m.keys.Focus):
		next := focusSidebar
		if m.focus == focusSidebar {
			next = focusInput
		}
		cmd := m.setFocus(next)
		return m, cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return m.moveSelection(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveSelection(-m.sidebarRows())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveSelection(m.sidebarRows())
	case key.Matches(msg, m.keys.Enter):
		return m.openSelected()
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		return m.submit()
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown):
		return m.scrollViewport(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// scrollViewport forwards msg to the transcript. Reaching the top loads
// the next older page.
func (m Model) scrollViewport(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	if m.viewport.AtTop() {
		if load := m.loadMessages(true); load != nil {
			cmd = tea.Batch(cmd, load, m.startSpinner())
		}
	}
	return m, cmd
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	n := m.sess.List.Len()
	if n == 0 {
		return m, nil
	}
	m.selected = clamp(m.selected+delta, 0, n-1)
	m.ensureVisible()
	cmd := m.maybePrefetch()
	return m, cmd
}

// maybePrefetch loads the next page once the selection is within the
// prefetch threshold of the last row.
func (m *Model) maybePrefetch() tea.Cmd {
	n := m.sess.List.Len()
	if n == 0 || n-1-m.selected > m.prefetch {
		return nil
	}
	load := m.loadConversations()
	if load == nil {
		return nil
	}
	return tea.Batch(load, m.startSpinner())
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	id := m.rowID(m.selected)
	if id == "" {
		return m, nil
	}
	t, ok := m.sess.Select(id)
	m.status = ""
	m.refreshTranscript()
	focus := m.setFocus(focusInput)
	if !ok {
		return m, focus
	}
	cmd := tea.Batch(focus, fetchMessagesCmd(m.sess, t, m.timeout), m.startSpinner())
	return m, cmd
}

func (m *Model) rowID(idx int) string {
	conv, ok := m.row(idx)
	if !ok {
		return ""
	}
	return conv.ChatID
}

func (m *Model) rowIndex(chatID string) int {
	for i, conv := range m.sess.List.Conversations() {
		if conv.ChatID == chatID {
			return i
		}
	}
	return -1
}

// anchorTop keeps the same conversations on the first visible row and
// under the cursor after the list changed.
func (m *Model) anchorTop(topID, selectedID string) {
	if idx := m.rowIndex(topID); idx >= 0 {
		m.top = idx
	}
	if idx := m.rowIndex(selectedID); idx >= 0 {
		m.selected = idx
	}
	n := m.sess.List.Len()
	m.selected = clamp(m.selected, 0, max(0, n-1))
	m.top = clamp(m.top, 0, max(0, n-1))
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	rows := m.sidebarRows()
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected >= m.top+rows {
		m.top = m.selected - rows + 1
	}
}

func (m *Model) sidebarRows() int {
	if m.sidebarRow <= 0 {
		return 1
	}
	return m.sidebarRow
}

// =============================================================================
// SEND
// =============================================================================

func (m Model) submit() (tea.Model, tea.Cmd) {
	t, _, err := m.sess.BeginSend(m.input.Value())
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		return m, nil
	case errors.Is(err, session.ErrCreatePending):
		m.status = CreatePending
		return m, nil
	case err != nil:
		m.status = err.Error()
		return m, nil
	}

	m.input.Reset()
	m.status = ""
	m.sending++
	m.refreshTranscript()
	m.viewport.GotoBottom()
	cmd := tea.Batch(deliverCmd(m.sess, t, m.timeout), m.startSpinner())
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// anchoredOffset returns the scroll offset that keeps the same line at the
// top of the viewport after content grew from before to after lines above
// it.
func anchoredOffset(offset, before, after int) int {
	next := offset + after - before
	if next < 0 {
		return 0
	}
	return next
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
