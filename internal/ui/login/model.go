// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

// Form text.
const (
	WorkingLabel       = "Working..."
	MissingCredentials = "Please fill in both username and password."
	Unreachable        = "Could not reach the server. Please try again."
)

// Authenticator signs a user in or registers a new account.
type Authenticator interface {
	Authenticate(ctx context.Context, mode api.AuthMode, username, password string) (model.User, error)
}

// AuthResultMsg carries the outcome of one submit.
type AuthResultMsg struct {
	Mode api.AuthMode
	User model.User
	Err  error
}

type field int

const (
	fieldUsername field = iota
	fieldPassword
)

type keyMap struct {
	SwitchMode key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	SwitchMode: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "login/register")),
	NextField:  key.NewBinding(key.WithKeys("down")),
	PrevField:  key.NewBinding(key.WithKeys("up", "shift+tab")),
	Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// Model is the sign-in form.
type Model struct {
	theme   *styles.Theme
	auth    Authenticator
	timeout time.Duration

	mode     api.AuthMode
	username textinput.Model
	password textinput.Model
	focus    field
	spinner  spinner.Model

	pending bool
	alert   string

	width  int
	height int
}

// New creates the form. An empty username field gets focus.
func New(theme *styles.Theme, auth Authenticator, timeout time.Duration) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username: "
	username.PromptStyle = theme.InputPrompt
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.PromptStyle = theme.InputPrompt
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = theme.Spinner

	return Model{
		theme:    theme,
		auth:     auth,
		timeout:  timeout,
		mode:     api.AuthLogin,
		username: username,
		password: password,
		spinner:  sp,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the selected endpoint.
func (m Model) Mode() api.AuthMode { return m.mode }

// Pending reports whether a submit is in flight.
func (m Model) Pending() bool { return m.pending }

// Alert returns the inline error text, if any.
func (m Model) Alert() string { return m.alert }

// SetSize records the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles form input and auth results.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case AuthResultMsg:
		m.pending = false
		if msg.Err != nil {
			m.alert = alertText(msg.Err)
			m.password.SetValue("")
			cmd := m.focusField(fieldPassword)
			return m, cmd
		}
		m.alert = ""
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	if m.pending {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.SwitchMode):
		if m.mode == api.AuthLogin {
			m.mode = api.AuthRegister
		} else {
			m.mode = api.AuthLogin
		}
		m.alert = ""
		return m, nil

	case key.Matches(msg, keys.NextField):
		cmd := m.focusField(fieldPassword)
		return m, cmd

	case key.Matches(msg, keys.PrevField):
		cmd := m.focusField(fieldUsername)
		return m, cmd

	case key.Matches(msg, keys.Submit):
		if m.focus == fieldUsername && m.password.Value() == "" && strings.TrimSpace(m.username.Value()) != "" {
			cmd := m.focusField(fieldPassword)
			return m, cmd
		}
		return m.submit()
	}

	var cmd tea.Cmd
	if m.focus == fieldUsername {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	if f == fieldUsername {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := strings.TrimSpace(m.password.Value())
	if username == "" || password == "" {
		m.alert = MissingCredentials
		return m, nil
	}

	m.alert = ""
	m.pending = true
	return m, tea.Batch(
		authenticateCmd(m.auth, m.timeout, m.mode, username, password),
		m.spinner.Tick,
	)
}

func authenticateCmd(auth Authenticator, timeout time.Duration, mode api.AuthMode, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := auth.Authenticate(ctx, mode, username, password)
		return AuthResultMsg{Mode: mode, User: user, Err: err}
	}
}

// alertText maps an auth failure to the text shown under the form.
func alertText(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrMissingCredentials):
		return MissingCredentials
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, api.ErrTransport):
		return Unreachable
	default:
		return api.DefaultErrorDetail
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the form centered in the terminal.
func (m Model) View() string {
	t := m.theme

	login, register := t.TabInactive, t.TabInactive
	if m.mode == api.AuthLogin {
		login = t.TabActive
	} else {
		register = t.TabActive
	}
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		login.Render(api.AuthLogin.Label()),
		register.Render(api.AuthRegister.Label()),
	)

	button := t.Button.Render(m.mode.Label())
	if m.pending {
		button = t.ButtonBusy.Render(m.spinner.View() + " " + WorkingLabel)
	}

	parts := []string{
		t.FormTitle.Render("rigchat"),
		tabs,
		"",
		m.username.View(),
		m.password.View(),
		"",
		button,
	}
	if m.alert != "" {
		parts = append(parts, "", t.Alert.Render(m.alert))
	}
	parts = append(parts, "",
		t.ShortcutKey.Render("tab")+t.ShortcutDesc.Render(" switch  ")+
			t.ShortcutKey.Render("enter")+t.ShortcutDesc.Render(" submit  ")+
			t.ShortcutKey.Render("esc")+t.ShortcutDesc.Render(" quit"))

	box := t.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
