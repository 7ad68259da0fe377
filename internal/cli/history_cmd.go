// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/session"
)

// HandleHistory prints the stored user's conversations page by page until
// the list is complete or args.Pages pages were fetched.
func HandleHistory(ctx context.Context, env *Env, args Args) error {
	sess, _, err := env.Session()
	if err != nil {
		return err
	}
	return printHistory(ctx, env, sess, args.Pages)
}

func printHistory(ctx context.Context, env *Env, sess *session.Session, maxPages int) error {
	width := GetTerminalWidth()
	fmt.Fprintln(env.Out, RenderConditional(TitleStyle, "Conversations of "+sess.User.Username))
	fmt.Fprintln(env.Out, RenderSeparator(width-4))

	printed := make(map[string]bool)
	pages := 0
	for maxPages == 0 || pages < maxPages {
		reqCtx, cancel := env.WithTimeout(ctx)
		result, ok := sess.LoadMoreConversations(reqCtx)
		cancel()
		if !ok {
			break
		}
		pages++
		if result.Err != nil {
			return &CommandError{Command: "history", Reason: fmt.Sprintf("loading page %d", pages), Err: result.Err}
		}
		printNew(env, sess.List.Conversations(), printed, width)
		if result.Done || result.Added == 0 {
			break
		}
	}

	if sess.List.Len() == 0 {
		fmt.Fprint(env.Out, FormatConversationList(nil, width))
		return nil
	}
	more := ""
	if !sess.List.Cursor().Done {
		more = " (more available)"
	}
	fmt.Fprintln(env.Out, RenderConditional(DimStyle,
		fmt.Sprintf("%d conversations in %d pages%s", sess.List.Len(), pages, more)))
	return nil
}

// printNew prints conversations not printed before, keeping their position
// in the full list as the index.
func printNew(env *Env, convs []model.Conversation, printed map[string]bool, width int) {
	for i, conv := range convs {
		if printed[conv.ChatID] {
			continue
		}
		printed[conv.ChatID] = true
		fmt.Fprintln(env.Out, FormatConversationLine(i+1, conv, width))
	}
}
