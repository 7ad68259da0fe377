// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/util"
)

// =============================================================================
// STATE TYPE
// =============================================================================

// State is the persisted client state.
type State struct {
	User         *model.User `json:"user,omitempty"`
	ActiveChatID string      `json:"active_chat_id,omitempty"`
	SavedAt      time.Time   `json:"saved_at"`
}

// SignedIn reports whether the state carries a usable identity.
func (s *State) SignedIn() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// =============================================================================
// STATE STORE
// =============================================================================

// StateStore reads and writes a single state file.
type StateStore struct {
	path string
}

// NewStateStore returns a store backed by the file at path.
// The file and its directory are created on first Save.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file path.
func (s *StateStore) Path() string {
	return s.path
}

// Load reads the stored state. It returns ErrNoState when nothing has been
// saved yet, and ErrCorruptState (wrapping the decode error) when the file
// cannot be parsed.
func (s *StateStore) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoState
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return &st, nil
}

// Save writes st, stamping SavedAt.
func (s *StateStore) Save(st *State) error {
	if st == nil {
		return errors.New("storage: nil state")
	}
	st.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Clear removes the stored state. Clearing an empty store is not an error.
func (s *StateStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoState is returned when no state has been saved.
	ErrNoState = &StateError{Message: "no saved state"}

	// ErrCorruptState is returned when the state file cannot be decoded.
	ErrCorruptState = &StateError{Message: "corrupt state file"}
)

// StateError represents a state-store error.
// It can be compared using errors.Is.
type StateError struct {
	Message string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing state errors.
func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
