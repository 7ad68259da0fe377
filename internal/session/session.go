// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/paging"
	"github.com/jeranaias/rigchat-tui/internal/storage"
)

// Backend is the subset of the chat service a session talks to.
type Backend interface {
	ListConversations(ctx context.Context, userID string, q model.PageQuery) ([]model.Conversation, error)
	ListMessages(ctx context.Context, chatID string, q model.PageQuery) ([]model.Message, error)
	CreateConversation(ctx context.Context, userID, content string) (model.Reply, error)
	SendMessage(ctx context.Context, chatID, content string) (model.Reply, error)
}

// Store persists the session across restarts.
type Store interface {
	Save(st *storage.State) error
	Clear() error
}

// Options configures a Session.
type Options struct {
	ConversationPageSize int
	MessagePageSize      int
	// Store may be nil, in which case nothing is persisted.
	Store  Store
	Logger *log.Logger
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the client state of one signed-in user.
type Session struct {
	User    model.User
	List    *paging.ConversationPager
	History *paging.Histories

	backend Backend
	store   Store
	logger  *log.Logger

	// activeID is empty while the user is writing into a new conversation
	// the server has not created yet.
	activeID string

	// draftGen identifies the current draft. It changes whenever the user
	// leaves the draft, so a create resolving late cannot take focus.
	draftGen uint64
	creating bool
}

// New creates a session for user. It starts on a fresh draft.
func New(user model.User, backend Backend, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		User:    user,
		List:    paging.NewConversationPager(opts.ConversationPageSize),
		History: paging.NewHistories(opts.MessagePageSize),
		backend: backend,
		store:   opts.Store,
		logger:  logger.WithPrefix("session"),
	}
}

// Backend returns the service the session talks to.
func (s *Session) Backend() Backend {
	return s.backend
}

// ActiveID returns the active conversation id, or "" for the draft.
func (s *Session) ActiveID() string {
	return s.activeID
}

// Transcript returns the messages of the active conversation.
func (s *Session) Transcript() []model.Message {
	return s.History.Messages(s.activeID)
}

// Select makes chatID the active conversation. Its transcript and cursor
// are cleared and a ticket for a fresh newest-page load is returned.
// Selecting "" is equivalent to NewConversation and returns false.
func (s *Session) Select(chatID string) (paging.Ticket, bool) {
	if chatID == "" {
		s.NewConversation()
		return paging.Ticket{}, false
	}
	s.leaveDraft()
	s.activeID = chatID
	s.persist()
	return s.History.Next(chatID, paging.LoadOptions{Reset: true})
}

// NewConversation switches to an empty draft. The next send creates the
// conversation on the server.
func (s *Session) NewConversation() {
	s.leaveDraft()
	s.activeID = ""
	s.History.Append("", model.NewNotice(NewConversationReady))
	s.persist()
}

func (s *Session) leaveDraft() {
	s.History.Discard("")
	s.draftGen++
	s.creating = false
}

// =============================================================================
// PAGING
// =============================================================================

// NextConversations issues a ticket for the next older conversation page.
func (s *Session) NextConversations() (paging.Ticket, bool) {
	return s.List.Next()
}

// NextMessages issues a ticket for the next older page of the active
// conversation. The draft has no server history and never pages.
func (s *Session) NextMessages(prepend bool) (paging.Ticket, bool) {
	return s.History.Next(s.activeID, paging.LoadOptions{Prepend: prepend})
}

// FetchConversations performs the request for t.
func (s *Session) FetchConversations(ctx context.Context, t paging.Ticket) ([]model.Conversation, error) {
	return s.backend.ListConversations(ctx, s.User.ID, t.Query)
}

// FetchMessages performs the request for t.
func (s *Session) FetchMessages(ctx context.Context, t paging.Ticket) ([]model.Message, error) {
	return s.backend.ListMessages(ctx, t.Key, t.Query)
}

// LoadMoreConversations loads the next conversation page synchronously.
// ok is false when a load was already pending or the list is complete.
func (s *Session) LoadMoreConversations(ctx context.Context) (paging.ListResult, bool) {
	return s.List.LoadMore(ctx, func(ctx context.Context, q model.PageQuery) ([]model.Conversation, error) {
		return s.backend.ListConversations(ctx, s.User.ID, q)
	})
}

// LoadMoreMessages loads the next page of the active conversation
// synchronously.
func (s *Session) LoadMoreMessages(ctx context.Context, opts paging.LoadOptions) (paging.MessageResult, bool) {
	return s.History.LoadMore(ctx, s.activeID, opts, s.backend.ListMessages)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Restore reopens a conversation remembered from a previous run.
func (s *Session) Restore(chatID string) (paging.Ticket, bool) {
	if chatID == "" {
		return paging.Ticket{}, false
	}
	return s.Select(chatID)
}

// Logout forgets the persisted user and active conversation.
func (s *Session) Logout() error {
	s.activeID = ""
	s.leaveDraft()
	s.List.Clear()
	if s.store == nil {
		return nil
	}
	return s.store.Clear()
}

func (s *Session) persist() {
	if s.store == nil {
		return
	}
	user := s.User
	if err := s.store.Save(&storage.State{User: &user, ActiveChatID: s.activeID}); err != nil {
		s.logger.Warn("failed to persist state", "err", err)
	}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned when a send has no content after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrCreatePending is returned when the draft is already being created
	// on the server.
	ErrCreatePending = errors.New("the conversation is still being created")
)
