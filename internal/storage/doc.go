// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the client state that survives a restart.
//
// # Key Types
//
//   - StateStore: Reads and writes state.json under the state directory
//   - State: Signed-in user and the active conversation id
//
// # Usage
//
//	store := storage.NewStateStore(cfg.StatePath())
//	st, err := store.Load()
//	if errors.Is(err, storage.ErrNoState) {
//	    // show the login form
//	}
//
// Writes are atomic; a crash mid-save leaves the previous state intact.
package storage
