// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

const (
	// DefaultTimeout is used when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	userAgent = "rigchat/0.1.0"
)

// AuthMode selects the authentication endpoint.
type AuthMode string

const (
	AuthLogin    AuthMode = "login"
	AuthRegister AuthMode = "register"
)

// String returns the endpoint name.
func (m AuthMode) String() string {
	return string(m)
}

// Label returns the form label for the mode.
func (m AuthMode) Label() string {
	if m == AuthRegister {
		return "Register"
	}
	return "Login"
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests. Zero or less disables pacing.
	RequestsPerSecond float64
	// HTTPClient overrides the default client. Its Timeout is left alone.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewClient creates a client for the service at opts.BaseURL.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		if b := int(opts.RequestsPerSecond); b > burst {
			burst = b
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.WithPrefix("api"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Authenticate signs in or registers. Credentials are trimmed and
// normalized; empty fields fail with ErrMissingCredentials before any
// request is made.
func (c *Client) Authenticate(ctx context.Context, mode AuthMode, username, password string) (model.User, error) {
	username = norm.NFC.String(strings.TrimSpace(username))
	password = norm.NFC.String(strings.TrimSpace(password))
	if username == "" || password == "" {
		return model.User{}, ErrMissingCredentials
	}
	if mode != AuthRegister {
		mode = AuthLogin
	}

	var resp userResponse
	if err := c.postJSON(ctx, "/auth/"+mode.String(), credentialsRequest{
		Username: username,
		Password: password,
	}, &resp); err != nil {
		return model.User{}, err
	}

	user := model.User{ID: resp.userID(), Username: resp.Username}
	if user.ID == "" {
		return model.User{}, fmt.Errorf("%w: missing user id", ErrBadResponse)
	}
	if user.Username == "" {
		user.Username = username
	}
	return user, nil
}

// =============================================================================
// HISTORY
// =============================================================================

// ListConversations fetches one page of the user's conversations, newest
// first, strictly older than q.Before when it is set.
func (c *Client) ListConversations(ctx context.Context, userID string, q model.PageQuery) ([]model.Conversation, error) {
	params := pageParams(q)
	params.Set("user_id", userID)

	var resp historyResponse
	if err := c.getJSON(ctx, "/chat/history", params, &resp); err != nil {
		return nil, err
	}

	convs, dropped := resp.conversations()
	if dropped > 0 {
		c.logger.Warn("dropped malformed conversations", "count", dropped)
	}
	return convs, nil
}

// ListMessages fetches one page of a conversation's messages.
func (c *Client) ListMessages(ctx context.Context, chatID string, q model.PageQuery) ([]model.Message, error) {
	if chatID == "" {
		return nil, errors.New("api: empty chat id")
	}

	var resp messagesResponse
	path := "/chat/" + url.PathEscape(chatID) + "/messages"
	if err := c.getJSON(ctx, path, pageParams(q), &resp); err != nil {
		return nil, err
	}

	msgs, dropped := resp.messages()
	if dropped > 0 {
		c.logger.Warn("dropped malformed messages", "chat_id", chatID, "count", dropped)
	}
	return msgs, nil
}

func pageParams(q model.PageQuery) url.Values {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.HasBefore() {
		params.Set("before", FormatTimestamp(q.Before))
	}
	return params
}

// =============================================================================
// SENDING
// =============================================================================

// CreateConversation starts a conversation with its first message. The
// returned reply carries the server-assigned chat id.
func (c *Client) CreateConversation(ctx context.Context, userID, content string) (model.Reply, error) {
	var resp replyResponse
	if err := c.postJSON(ctx, "/chat/new", newChatRequest{
		UserID:  userID,
		Content: content,
	}, &resp); err != nil {
		return model.Reply{}, err
	}
	return model.Reply{ChatID: strings.TrimSpace(resp.ChatID), Content: resp.Content}, nil
}

// SendMessage posts content to an existing conversation.
func (c *Client) SendMessage(ctx context.Context, chatID, content string) (model.Reply, error) {
	var resp replyResponse
	if err := c.postJSON(ctx, "/chat/message", messageRequest{
		ChatID:  chatID,
		Content: content,
	}, &resp); err != nil {
		return model.Reply{}, err
	}
	return model.Reply{ChatID: chatID, Content: resp.Content}, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends req and decodes a success body into out. A success body that
// does not decode leaves out at its zero value.
func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	// Method and path only; bodies may hold passwords or message content.
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "err", err)
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, body)
		c.logger.Warn("request rejected", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return apiErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("undecodable response body", "path", req.URL.Path, "err", err)
		// Partial decodes are discarded.
		resetValue(out)
	}
	return nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

func resetValue(out any) {
	switch v := out.(type) {
	case *userResponse:
		*v = userResponse{}
	case *historyResponse:
		*v = historyResponse{}
	case *messagesResponse:
		*v = messagesResponse{}
	case *replyResponse:
		*v = replyResponse{}
	}
}
