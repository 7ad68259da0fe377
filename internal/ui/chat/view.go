// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/session"
	"github.com/jeranaias/rigchat-tui/internal/util"
)

// View renders the header, both panes and the status bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), m.renderMain())
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatus())
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.HeaderTitle.Render("Hello, " + m.sess.User.Username)
	hint := t.HeaderHint.Render("rigchat")
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(hint)-2)
	return t.Header.Width(m.width).Render(title + strings.Repeat(" ", gap) + hint)
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	t := m.theme
	inner := m.sidebarW - 2
	rows := m.sidebarRows()

	lines := []string{t.PaneTitle.Render("Conversations")}
	convs := m.sess.List.Conversations()
	switch {
	case len(convs) == 0 && m.sess.List.Cursor().Loading:
		lines = append(lines, t.SidebarEmpty.Render(m.spinner.View()+" loading"))
	case len(convs) == 0:
		lines = append(lines, t.SidebarEmpty.Render(EmptyList))
	default:
		end := min(len(convs), m.top+rows)
		for i := m.top; i < end; i++ {
			lines = append(lines, m.renderRow(i, convs[i], inner))
		}
	}

	style := t.Pane
	if m.focus == focusSidebar {
		style = t.PaneFocused
	}
	return style.Width(inner).Height(rows + 1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(idx int, conv model.Conversation, width int) string {
	t := m.theme
	title := util.PadWidth(util.TruncateWidth(util.SingleLine(conv.DisplayTitle()), width-1), width-1)
	switch {
	case idx == m.selected && m.focus == focusSidebar:
		return t.SidebarItemSelected.Render(title)
	case conv.ChatID == m.sess.ActiveID():
		return t.SidebarItemActive.Render(title)
	default:
		return t.SidebarItem.Render(title)
	}
}

func (m *Model) row(idx int) (model.Conversation, bool) {
	convs := m.sess.List.Conversations()
	if idx < 0 || idx >= len(convs) {
		return model.Conversation{}, false
	}
	return convs[idx], true
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m Model) renderMain() string {
	t := m.theme
	transcript := t.Pane.Width(m.viewport.Width).Render(m.viewport.View())

	inputStyle := t.Pane
	if m.focus == focusInput {
		inputStyle = t.PaneFocused
	}
	input := inputStyle.Width(m.viewport.Width).Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, transcript, input)
}

// refreshTranscript re-renders the active transcript into the viewport.
func (m *Model) refreshTranscript() {
	msgs := m.sess.Transcript()
	if len(msgs) == 0 {
		msgs = []model.Message{model.NewNotice(session.Greeting)}
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, m.renderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (m *Model) renderMessage(msg model.Message) string {
	t := m.theme
	width := max(10, m.viewport.Width-2)

	if msg.IsUser() {
		return t.UserLabel.Render(msg.Role.DisplayName()) + "\n" +
			t.UserText.Width(width).Render(msg.Content)
	}

	label := t.AssistantLabel.Render(msg.Role.DisplayName())
	if m.renderer != nil {
		if out, err := m.renderer.Render(msg.Content); err == nil {
			return label + "\n" + strings.Trim(out, "\n")
		}
	}
	return label + "\n" + t.AssistantText.Width(width).Render(msg.Content)
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatus() string {
	t := m.theme
	var left string
	switch {
	case m.status != "":
		left = t.Error.Render(m.status)
	case m.sending > 0:
		left = m.spinner.View() + " " + t.Muted.Render(fmt.Sprintf("waiting for %d %s", m.sending, plural(m.sending, "reply", "replies")))
	case m.busy():
		left = m.spinner.View() + " " + t.Muted.Render("loading")
	case m.listErr != nil:
		left = t.Error.Render("Could not load conversations")
	}

	var help []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		help = append(help, t.ShortcutKey.Render(h.Key)+" "+t.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(help, "  ")

	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return t.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
