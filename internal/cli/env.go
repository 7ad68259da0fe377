// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/config"
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/session"
	"github.com/jeranaias/rigchat-tui/internal/storage"
)

// Env bundles what every command needs.
type Env struct {
	Config *config.Config
	Logger *log.Logger
	Client *api.Client
	Store  *storage.StateStore

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// ReadPassword prompts for a secret. Defaults to a no-echo terminal
	// read when stdin is a TTY.
	ReadPassword func(prompt string) (string, error)

	reader *bufio.Reader
}

// NewEnv wires the API client and state store from cfg.
func NewEnv(cfg *config.Config, logger *log.Logger) *Env {
	env := &Env{
		Config: cfg,
		Logger: logger,
		Client: api.NewClient(api.Options{
			BaseURL:           cfg.API.BaseURL,
			Timeout:           cfg.API.Timeout(),
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Logger:            logger,
		}),
		Store: storage.NewStateStore(cfg.StatePath()),
		In:    os.Stdin,
		Out:   os.Stdout,
		Err:   os.Stderr,
	}
	env.ReadPassword = env.defaultReadPassword
	return env
}

// WithTimeout derives a per-request context.
func (e *Env) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.Config.API.Timeout())
}

// ReadLine prompts and reads one trimmed line from In.
func (e *Env) ReadLine(prompt string) (string, error) {
	if e.reader == nil {
		e.reader = bufio.NewReader(e.In)
	}
	fmt.Fprint(e.Out, prompt)
	line, err := e.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (e *Env) defaultReadPassword(prompt string) (string, error) {
	f, ok := e.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return e.ReadLine(prompt)
	}
	fmt.Fprint(e.Out, prompt)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(e.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// NewSession creates a session for user backed by this Env.
func (e *Env) NewSession(user model.User) *session.Session {
	return session.New(user, e.Client, session.Options{
		ConversationPageSize: e.Config.Paging.ConversationPageSize,
		MessagePageSize:      e.Config.Paging.MessagePageSize,
		Store:                e.Store,
		Logger:               e.Logger,
	})
}

// Session restores the stored user. It returns ErrNotSignedIn when no
// usable identity is stored.
func (e *Env) Session() (*session.Session, *storage.State, error) {
	st, err := e.Store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoState) {
			return nil, nil, ErrNotSignedIn
		}
		return nil, nil, err
	}
	if !st.SignedIn() {
		return nil, nil, ErrNotSignedIn
	}
	return e.NewSession(*st.User), st, nil
}
