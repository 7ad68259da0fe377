// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model. It shows the login form
// until a user is signed in, then the chat view, and returns to the form on
// logout.
package app

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/rigchat-tui/internal/config"
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/session"
	"github.com/jeranaias/rigchat-tui/internal/storage"
	"github.com/jeranaias/rigchat-tui/internal/ui/chat"
	"github.com/jeranaias/rigchat-tui/internal/ui/login"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

// State represents the current screen.
type State int

const (
	StateLogin State = iota
	StateChat
)

// Store persists the signed-in user.
type Store interface {
	Save(st *storage.State) error
}

// Options wires the root model.
type Options struct {
	Config *config.Config
	Theme  *styles.Theme
	Auth   login.Authenticator
	Store  Store
	// NewSession builds the session of a signed-in user.
	NewSession func(user model.User) *session.Session
	// Restored is the state of a previous run, or nil.
	Restored *storage.State
	Logger   *log.Logger
}

// Model is the root model.
type Model struct {
	opts   Options
	logger *log.Logger

	state State
	login login.Model
	chat  chat.Model

	width  int
	height int
}

// New starts on the chat view when opts.Restored holds a user, otherwise on
// the login form.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ParseMode(opts.Config.UI.Theme))
	}

	m := Model{opts: opts, logger: logger.WithPrefix("app")}
	if st := opts.Restored; st.SignedIn() {
		m.startChat(*st.User, st.ActiveChatID)
	} else {
		m.startLogin()
	}
	return m
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Init starts the current screen.
func (m Model) Init() tea.Cmd {
	if m.state == StateChat {
		return m.chat.Init()
	}
	return m.login.Init()
}

// Update routes messages to the current screen and handles the switches
// between them.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case login.AuthResultMsg:
		if msg.Err == nil && m.state == StateLogin {
			m.signIn(msg.User)
			return m, m.chat.Init()
		}

	case chat.LoggedOutMsg:
		if msg.Err != nil {
			m.logger.Warn("failed to clear stored state", "err", msg.Err)
		}
		m.startLogin()
		return m, m.login.Init()
	}

	var cmd tea.Cmd
	switch m.state {
	case StateChat:
		var updated tea.Model
		updated, cmd = m.chat.Update(msg)
		m.chat = updated.(chat.Model)
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// View renders the current screen.
func (m Model) View() string {
	if m.state == StateChat {
		return m.chat.View()
	}
	return m.login.View()
}

func (m *Model) signIn(user model.User) {
	if m.opts.Store != nil {
		if err := m.opts.Store.Save(&storage.State{User: &user}); err != nil {
			m.logger.Warn("failed to persist user", "err", err)
		}
	}
	m.logger.Info("signed in", "user", user.Username)
	m.startChat(user, "")
}

func (m *Model) startChat(user model.User, restore string) {
	cfg := m.opts.Config
	m.chat = chat.New(chat.Options{
		Theme:             m.opts.Theme,
		Session:           m.opts.NewSession(user),
		Timeout:           cfg.API.Timeout(),
		PrefetchThreshold: cfg.Paging.PrefetchThreshold,
		Markdown:          cfg.UI.Markdown,
		RestoreChatID:     restore,
		Logger:            m.logger,
	})
	if m.width > 0 {
		m.chat.SetSize(m.width, m.height)
	}
	m.state = StateChat
}

func (m *Model) startLogin() {
	m.login = login.New(m.opts.Theme, m.opts.Auth, m.opts.Config.API.Timeout())
	if m.width > 0 {
		m.login.SetSize(m.width, m.height)
	}
	m.state = StateLogin
}
