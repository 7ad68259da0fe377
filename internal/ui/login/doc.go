// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in form shown before the chat view.
//
// Tab switches between login and register, Enter submits, and failures are
// shown in an inline alert. A successful attempt produces an AuthResultMsg
// with no error, which the root model turns into a chat session.
package login
