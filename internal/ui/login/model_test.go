// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/ui/styles"
)

type fakeAuth struct {
	calls int
	mode  api.AuthMode
	user  model.User
	err   error
}

func (f *fakeAuth) Authenticate(_ context.Context, mode api.AuthMode, username, _ string) (model.User, error) {
	f.calls++
	f.mode = mode
	if f.err != nil {
		return model.User{}, f.err
	}
	if f.user.IsZero() {
		return model.User{ID: "1", Username: username}, nil
	}
	return f.user, nil
}

func newForm(auth Authenticator) Model {
	return New(styles.NewTheme(styles.ModeDark), auth, time.Second)
}

func typeText(m Model, s string) Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

// authResult runs cmd and returns the AuthResultMsg among its messages.
func authResult(t *testing.T, cmd tea.Cmd) AuthResultMsg {
	t.Helper()
	require.NotNil(t, cmd)
	var pending []tea.Cmd
	pending = append(pending, cmd)
	for len(pending) > 0 {
		c := pending[0]
		pending = pending[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			pending = append(pending, msg...)
		case AuthResultMsg:
			return msg
		}
	}
	t.Fatal("no AuthResultMsg produced")
	return AuthResultMsg{}
}

func TestTabSwitchesMode(t *testing.T) {
	m := newForm(&fakeAuth{})
	assert.Equal(t, api.AuthLogin, m.Mode())

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, api.AuthRegister, m.Mode())
	assert.Contains(t, m.View(), "Register")

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, api.AuthLogin, m.Mode())
}

func TestSubmitEmptyShowsAlertWithoutRequest(t *testing.T) {
	auth := &fakeAuth{}
	m := newForm(auth)

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, MissingCredentials, m.Alert())
	assert.False(t, m.Pending())
	assert.Equal(t, 0, auth.calls)
}

func TestEnterOnUsernameMovesToPassword(t *testing.T) {
	auth := &fakeAuth{}
	m := newForm(auth)

	m = typeText(m, "bob")
	m, _ = press(m, tea.KeyEnter)
	assert.False(t, m.Pending())

	m = typeText(m, "secret")
	assert.Equal(t, "bob", m.username.Value())
	assert.Equal(t, "secret", m.password.Value())
}

func TestSubmitSuccess(t *testing.T) {
	auth := &fakeAuth{}
	m := newForm(auth)

	m = typeText(m, "bob")
	m, _ = press(m, tea.KeyDown)
	m = typeText(m, "secret")
	m, cmd := press(m, tea.KeyEnter)

	require.True(t, m.Pending())
	assert.Contains(t, m.View(), WorkingLabel)

	result := authResult(t, cmd)
	require.NoError(t, result.Err)
	assert.Equal(t, "bob", result.User.Username)
	assert.Equal(t, api.AuthLogin, auth.mode)

	m, _ = m.Update(result)
	assert.False(t, m.Pending())
	assert.Empty(t, m.Alert())
}

func TestSubmitWhilePendingIgnored(t *testing.T) {
	auth := &fakeAuth{}
	m := newForm(auth)
	m = typeText(m, "bob")
	m, _ = press(m, tea.KeyDown)
	m = typeText(m, "secret")
	m, _ = press(m, tea.KeyEnter)

	m, cmd := press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.True(t, m.Pending())
}

func TestServerErrorShownInline(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"detail", &api.APIError{Status: 400, Detail: "Username already exists"}, "Username already exists"},
		{"transport", fmt.Errorf("%w: connection refused", api.ErrTransport), Unreachable},
		{"bad response", api.ErrBadResponse, api.DefaultErrorDetail},
		{"missing", api.ErrMissingCredentials, MissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newForm(&fakeAuth{})
			m, _ = m.Update(AuthResultMsg{Mode: api.AuthRegister, Err: tt.err})
			assert.Equal(t, tt.want, m.Alert())
			assert.True(t, strings.Contains(m.View(), tt.want))
			assert.Empty(t, m.password.Value())
		})
	}
}
