// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/rigchat-tui/internal/api"
	"github.com/jeranaias/rigchat-tui/internal/storage"
)

// HandleAuth signs in or registers and stores the user. The password is
// read without echo when stdin is a terminal.
func HandleAuth(ctx context.Context, env *Env, mode api.AuthMode, args Args) error {
	username := args.Username
	if username == "" {
		var err error
		if username, err = env.ReadLine("Username: "); err != nil {
			return &CommandError{Command: mode.String(), Reason: "reading username", Err: err}
		}
	}
	password, err := env.ReadPassword("Password: ")
	if err != nil {
		return &CommandError{Command: mode.String(), Reason: "reading password", Err: err}
	}

	reqCtx, cancel := env.WithTimeout(ctx)
	defer cancel()
	user, err := env.Client.Authenticate(reqCtx, mode, username, password)
	if err != nil {
		return err
	}

	// Signing in again as the same user keeps the open conversation.
	st := &storage.State{User: &user}
	if prev, err := env.Store.Load(); err == nil && prev.SignedIn() && prev.User.ID == user.ID {
		st.ActiveChatID = prev.ActiveChatID
	} else if err != nil && !errors.Is(err, storage.ErrNoState) {
		env.Logger.Warn("ignoring unreadable state", "err", err)
	}
	if err := env.Store.Save(st); err != nil {
		return &CommandError{Command: mode.String(), Reason: "saving state", Err: err}
	}

	env.Logger.Info("signed in", "user_id", user.ID, "mode", mode)
	fmt.Fprintf(env.Out, "%s Signed in as %s\n", RenderConditional(SuccessStyle, "[OK]"), user.Username)
	return nil
}

// HandleLogout forgets the stored user and active conversation.
func HandleLogout(env *Env) error {
	if err := env.Store.Clear(); err != nil {
		return &CommandError{Command: "logout", Reason: "clearing state", Err: err}
	}
	fmt.Fprintf(env.Out, "%s Signed out\n", RenderConditional(SuccessStyle, "[OK]"))
	return nil
}
