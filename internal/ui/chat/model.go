// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/rigchat-tui/internal/session"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

// Layout constants.
const (
	maxSidebarWidth = 32
	minSidebarWidth = 16
	headerHeight    = 1
	statusHeight    = 1
	inputHeight     = 3
)

// Status texts.
const (
	EmptyList     = "No conversations yet"
	CreatePending = "Still creating the conversation..."
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// Options configures the chat view.
type Options struct {
	Theme   *styles.Theme
	Session *session.Session
	// Timeout bounds every request.
	Timeout time.Duration
	// PrefetchThreshold loads the next conversation page once the sidebar
	// selection is this many rows from the end.
	PrefetchThreshold int
	// Markdown renders assistant messages through glamour.
	Markdown bool
	// RestoreChatID reopens a conversation from a previous run.
	RestoreChatID string
	Logger        *log.Logger
}

// Model is the chat view.
type Model struct {
	theme    *styles.Theme
	sess     *session.Session
	keys     KeyMap
	logger   *log.Logger
	timeout  time.Duration
	prefetch int
	markdown bool

	focus    focusArea
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	ticking  bool

	// Sidebar position. top is the first visible row.
	selected int
	top      int
	// selectOnLoad moves the sidebar cursor to a newly created
	// conversation once it appears in the list.
	selectOnLoad string

	sending int
	status  string
	listErr error

	width      int
	height     int
	renderedW  int
	sidebarW   int
	sidebarRow int

	startup tea.Cmd
}

// New creates the chat view and issues the first list load. When
// opts.RestoreChatID is set its history is loaded as well.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = opts.Theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = opts.Theme.Spinner

	m := Model{
		theme:    opts.Theme,
		sess:     opts.Session,
		keys:     DefaultKeyMap(),
		logger:   logger.WithPrefix("chat"),
		timeout:  timeout,
		prefetch: opts.PrefetchThreshold,
		markdown: opts.Markdown,
		viewport: viewport.New(0, 0),
		input:    input,
		spinner:  sp,
	}

	cmds := []tea.Cmd{textinput.Blink, m.loadConversations()}
	if t, ok := m.sess.Restore(opts.RestoreChatID); ok {
		cmds = append(cmds, fetchMessagesCmd(m.sess, t, m.timeout))
	}
	cmds = append(cmds, m.startSpinner())
	m.startup = tea.Batch(cmds...)
	m.refreshTranscript()
	return m
}

// Init returns the loads issued by New.
func (m Model) Init() tea.Cmd {
	return m.startup
}

// Session returns the session driving the view.
func (m Model) Session() *session.Session {
	return m.sess
}

// Status returns the status bar message, if any.
func (m Model) Status() string {
	return m.status
}

// SetSize lays the panes out for a terminal of the given size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.sidebarW = width / 3
	if m.sidebarW > maxSidebarWidth {
		m.sidebarW = maxSidebarWidth
	}
	if m.sidebarW < minSidebarWidth {
		m.sidebarW = minSidebarWidth
	}

	bodyH := height - headerHeight - statusHeight
	// Border plus the pane title.
	m.sidebarRow = max(1, bodyH-3)

	mainW := max(10, width-m.sidebarW-2)
	m.viewport.Width = mainW
	m.viewport.Height = max(1, bodyH-inputHeight-2)
	m.input.Width = max(1, mainW-len(m.input.Prompt)-1)

	if m.markdown && m.renderedW != mainW {
		m.renderer = m.newRenderer(mainW)
		m.renderedW = mainW
	}
	m.ensureVisible()
	m.refreshTranscript()
}

func (m *Model) newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", "err", err)
		return nil
	}
	return r
}

// =============================================================================
// LOAD HELPERS
// =============================================================================

// loadConversations returns the command for the next list page, or nil when
// a load is pending or the list is complete.
func (m *Model) loadConversations() tea.Cmd {
	t, ok := m.sess.NextConversations()
	if !ok {
		return nil
	}
	return fetchConversationsCmd(m.sess, t, m.timeout)
}

// loadMessages returns the command for the next page of the active
// conversation, or nil when that cannot load right now.
func (m *Model) loadMessages(prepend bool) tea.Cmd {
	t, ok := m.sess.NextMessages(prepend)
	if !ok {
		return nil
	}
	return fetchMessagesCmd(m.sess, t, m.timeout)
}

func (m *Model) busy() bool {
	if m.sending > 0 || m.sess.List.Cursor().Loading {
		return true
	}
	id := m.sess.ActiveID()
	return id != "" && m.sess.History.Cursor(id).Loading
}

// startSpinner starts the tick loop unless it is already running.
func (m *Model) startSpinner() tea.Cmd {
	if m.ticking || !m.busy() {
		return nil
	}
	m.ticking = true
	return m.spinner.Tick
}
