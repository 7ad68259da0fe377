// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/paging"
	"github.com/jeranaias/rigchat-tui/internal/session"
)

const replHelp = `Commands:
  /list        Show loaded conversations
  /more        Load older conversations
  /open N      Open conversation N from the list
  /older       Load older messages of the open conversation
  /new         Start a new conversation
  /logout      Sign out and exit
  /help        Show this help
  /quit        Exit
Anything else is sent as a message.
`

// HandleREPL runs the line-mode client for the stored user.
func HandleREPL(ctx context.Context, env *Env) error {
	sess, st, err := env.Session()
	if err != nil {
		return err
	}
	r := NewREPL(env, sess)
	r.Start(ctx, st.ActiveChatID)
	return r.Run(ctx)
}

// =============================================================================
// REPL
// =============================================================================

// REPL is a line-mode chat client over a session.
type REPL struct {
	env  *Env
	sess *session.Session
}

// NewREPL creates a REPL for sess.
func NewREPL(env *Env, sess *session.Session) *REPL {
	return &REPL{env: env, sess: sess}
}

// Start greets the user and reopens activeID when set.
func (r *REPL) Start(ctx context.Context, activeID string) {
	fmt.Fprintln(r.env.Out, RenderConditional(TitleStyle, "Hello, "+r.sess.User.Username))
	if activeID == "" {
		fmt.Fprintln(r.env.Out, FormatMessage(model.NewNotice(session.Greeting)))
		return
	}
	if t, ok := r.sess.Restore(activeID); ok {
		r.applyMessages(ctx, t)
		r.printMessages(r.sess.Transcript())
	}
}

// Run reads lines until /quit, /logout or EOF. Input history is kept in
// the state directory.
func (r *REPL) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := r.env.Config.HistoryPath()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		f, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			r.env.Logger.Warn("failed to save repl history", "err", err)
			return
		}
		defer f.Close()
		line.WriteHistory(f)
	}()

	prompt := "rigchat> "
	for {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(r.env.Out)
			}
			return nil
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		cont, err := r.Handle(ctx, input)
		if err != nil {
			DisplayError(r.env.Err, err)
		}
		if !cont {
			return nil
		}
	}
}

// Handle processes one input line. It returns false when the REPL should
// exit.
func (r *REPL) Handle(ctx context.Context, input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return true, nil
	}
	if !strings.HasPrefix(input, "/") {
		return true, r.send(ctx, input)
	}

	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "/list", "/ls":
		if r.sess.List.Len() == 0 && !r.sess.List.Cursor().HasOffset() {
			if err := r.loadConversations(ctx); err != nil {
				return true, err
			}
		}
		fmt.Fprint(r.env.Out, FormatConversationList(r.sess.List.Conversations(), GetTerminalWidth()))
	case "/more":
		before := r.sess.List.Len()
		if err := r.loadConversations(ctx); err != nil {
			return true, err
		}
		if r.sess.List.Len() == before {
			fmt.Fprintln(r.env.Out, RenderConditional(DimStyle, "No older conversations"))
			return true, nil
		}
		fmt.Fprint(r.env.Out, FormatConversationList(r.sess.List.Conversations(), GetTerminalWidth()))
	case "/open":
		return true, r.open(ctx, arg)
	case "/older":
		return true, r.older(ctx)
	case "/new":
		r.sess.NewConversation()
		r.printMessages(r.sess.Transcript())
	case "/logout":
		if err := r.sess.Logout(); err != nil {
			return false, err
		}
		fmt.Fprintln(r.env.Out, RenderConditional(SuccessStyle, "Signed out"))
		return false, nil
	case "/help", "/?":
		fmt.Fprint(r.env.Out, replHelp)
	case "/quit", "/exit", "/q":
		return false, nil
	default:
		return true, &UsageError{Message: fmt.Sprintf("unknown command %s (try /help)", cmd)}
	}
	return true, nil
}

func (r *REPL) send(ctx context.Context, content string) error {
	reqCtx, cancel := r.env.WithTimeout(ctx)
	defer cancel()

	result, err := r.sess.Send(reqCtx, content)
	if err != nil {
		return err
	}
	if result.Visible {
		fmt.Fprintln(r.env.Out, FormatMessage(result.Reply))
	}
	if result.Created {
		fmt.Fprintln(r.env.Out, RenderConditional(DimStyle, "Started conversation "+result.ChatID))
	}
	if result.ReloadList {
		// Refresh quietly; /list shows the result.
		if err := r.loadConversations(ctx); err != nil {
			r.env.Logger.Warn("conversation list reload failed", "err", err)
		}
	}
	return nil
}

func (r *REPL) loadConversations(ctx context.Context) error {
	reqCtx, cancel := r.env.WithTimeout(ctx)
	defer cancel()
	result, ok := r.sess.LoadMoreConversations(reqCtx)
	if !ok {
		return nil
	}
	return result.Err
}

func (r *REPL) open(ctx context.Context, arg string) error {
	n, err := strconv.Atoi(arg)
	convs := r.sess.List.Conversations()
	if err != nil || n < 1 || n > len(convs) {
		return &UsageError{Message: fmt.Sprintf("usage: /open N (1-%d)", len(convs))}
	}
	conv := convs[n-1]

	fmt.Fprintln(r.env.Out, RenderConditional(TitleStyle, conv.DisplayTitle()))
	if t, ok := r.sess.Select(conv.ChatID); ok {
		r.applyMessages(ctx, t)
	}
	r.printMessages(r.sess.Transcript())
	return nil
}

func (r *REPL) older(ctx context.Context) error {
	if r.sess.ActiveID() == "" {
		return &UsageError{Message: "open a conversation first"}
	}
	t, ok := r.sess.NextMessages(true)
	if !ok {
		fmt.Fprintln(r.env.Out, RenderConditional(DimStyle, "No older messages"))
		return nil
	}
	result := r.applyMessages(ctx, t)
	if result.Err != nil {
		fmt.Fprintln(r.env.Out, FormatMessage(model.NewNotice(paging.HistoryLoadFailed)))
		return nil
	}
	if result.Added == 0 {
		fmt.Fprintln(r.env.Out, RenderConditional(DimStyle, "No older messages"))
		return nil
	}
	// Prepended messages sort before everything already shown.
	r.printMessages(r.sess.Transcript()[:result.Added])
	return nil
}

func (r *REPL) applyMessages(ctx context.Context, t paging.Ticket) paging.MessageResult {
	reqCtx, cancel := r.env.WithTimeout(ctx)
	defer cancel()
	page, err := r.sess.FetchMessages(reqCtx, t)
	result := r.sess.History.Apply(t, page, err)
	if result.Err != nil {
		r.env.Logger.Warn("history load failed", "chat_id", t.Key, "err", result.Err)
	}
	return result
}

func (r *REPL) printMessages(msgs []model.Message) {
	for _, msg := range msgs {
		fmt.Fprintln(r.env.Out, FormatMessage(msg))
	}
}
