// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the chat service.
//
// # Endpoints
//
//   - POST /auth/login, /auth/register: sign in or create an account
//   - GET /chat/history: one page of the user's conversation list
//   - GET /chat/{chat_id}/messages: one page of a conversation's history
//   - POST /chat/new: create a conversation with its first message
//   - POST /chat/message: send to an existing conversation
//
// Every endpoint decodes into one explicit response struct. A body that does
// not match its struct is treated as empty rather than an error, and list
// entries missing required fields are dropped.
//
// # Errors
//
//   - ErrMissingCredentials: returned before any network call
//   - *APIError: non-2xx response, carrying the server's detail message
//   - ErrTransport: wraps connection and timeout failures
//
// Requests are paced by a client-side rate limiter and never retried.
package api
