// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultErrorDetail is shown when the server gave no usable error message.
const DefaultErrorDetail = "Unable to process the request. Please try again."

var (
	// ErrMissingCredentials indicates an empty username or password.
	ErrMissingCredentials = errors.New("please fill in both username and password")

	// ErrTransport wraps failures that happened before a response arrived.
	ErrTransport = errors.New("request failed")

	// ErrBadResponse indicates a success response without the fields the
	// caller cannot do without.
	ErrBadResponse = errors.New("unexpected response from server")
)

// APIError represents a non-success response from the chat service.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface. The detail alone is returned so it
// can be shown to the user as-is.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return e.Detail
}

// IsUnauthorized reports whether the server rejected the credentials.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// parseError builds an APIError from a non-success body. The service reports
// errors as {"detail": [{"msg": "..."}]} for validation failures and
// {"detail": "..."} otherwise; anything else falls back to DefaultErrorDetail.
func parseError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Detail: DefaultErrorDetail}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return apiErr
	}

	var items []errorDetail
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				apiErr.Detail = msg
				return apiErr
			}
		}
		return apiErr
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		if text = strings.TrimSpace(text); text != "" {
			apiErr.Detail = text
		}
	}
	return apiErr
}
