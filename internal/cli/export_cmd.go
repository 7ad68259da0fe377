// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/rigchat-tui/internal/export"
	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/paging"
	"github.com/jeranaias/rigchat-tui/internal/session"
)

// HandleExport pages through the whole history of args.ChatID and writes it
// to a file in args.OutDir.
func HandleExport(ctx context.Context, env *Env, args Args) error {
	if args.ChatID == "" {
		return &UsageError{Message: "usage: rigchat export <chat-id> [--format md|json|html] [--out DIR]"}
	}

	opts := export.DefaultOptions()
	opts.OutputDir = args.OutDir
	if strings.EqualFold(env.Config.UI.Theme, "light") {
		opts.Theme = "light"
	}
	exporter, err := export.ForFormat(args.Format, opts)
	if err != nil {
		return &UsageError{Message: err.Error()}
	}

	sess, _, err := env.Session()
	if err != nil {
		return err
	}

	conv := findConversation(ctx, env, sess, args.ChatID)
	msgs, err := loadFullHistory(ctx, env, sess, args.ChatID)
	if err != nil {
		return &CommandError{Command: "export", Reason: "loading history", Err: err}
	}

	tr := &export.Transcript{Conversation: conv, Messages: msgs}
	path, err := export.ExportToFile(tr, exporter, opts)
	if err != nil {
		return &CommandError{Command: "export", Reason: "writing transcript", Err: err}
	}

	env.Logger.Info("exported conversation", "chat_id", args.ChatID, "messages", len(msgs), "path", path)
	fmt.Fprintln(env.Out, RenderConditional(SuccessStyle,
		fmt.Sprintf("Exported %d messages to %s", len(msgs), path)))
	return nil
}

// findConversation pages the list until chatID shows up. A conversation
// that is not found keeps only its id.
func findConversation(ctx context.Context, env *Env, sess *session.Session, chatID string) model.Conversation {
	for {
		if conv, ok := sess.List.Get(chatID); ok {
			return conv
		}
		reqCtx, cancel := env.WithTimeout(ctx)
		result, ok := sess.LoadMoreConversations(reqCtx)
		cancel()
		if !ok || result.Err != nil || result.Done || result.Added == 0 {
			if result.Err != nil {
				env.Logger.Warn("conversation lookup failed", "chat_id", chatID, "err", result.Err)
			}
			if conv, ok := sess.List.Get(chatID); ok {
				return conv
			}
			return model.Conversation{ChatID: chatID}
		}
	}
}

// loadFullHistory fetches older pages of chatID until the cursor is done.
func loadFullHistory(ctx context.Context, env *Env, sess *session.Session, chatID string) ([]model.Message, error) {
	fetch := sess.Backend().ListMessages
	for {
		reqCtx, cancel := env.WithTimeout(ctx)
		result, ok := sess.History.LoadMore(reqCtx, chatID, paging.LoadOptions{Prepend: true}, fetch)
		cancel()
		if !ok {
			break
		}
		if result.Err != nil {
			return nil, result.Err
		}
		if result.Done || result.Added == 0 {
			break
		}
	}
	return sess.History.Messages(chatID), nil
}
