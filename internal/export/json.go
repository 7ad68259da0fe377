// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON. It always writes every message;
// the options only control the metadata block.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	ChatID     string        `json:"chat_id"`
	Title      string        `json:"title"`
	CreatedAt  *time.Time    `json:"created_at,omitempty"`
	ExportedAt *time.Time    `json:"exported_at,omitempty"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(tr *Transcript) ([]byte, error) {
	if tr == nil || len(tr.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	out := jsonTranscript{
		ChatID:   tr.Conversation.ChatID,
		Title:    tr.Conversation.DisplayTitle(),
		Messages: make([]jsonMessage, 0, len(tr.Messages)),
	}
	if e.options.IncludeMetadata {
		if !tr.Conversation.CreatedAt.IsZero() {
			created := tr.Conversation.CreatedAt.UTC()
			out.CreatedAt = &created
		}
		if !tr.ExportedAt.IsZero() {
			exported := tr.ExportedAt.UTC()
			out.ExportedAt = &exported
		}
	}
	for _, msg := range tr.Messages {
		role := model.RoleAssistant.String()
		if msg.IsUser() {
			role = model.RoleUser.String()
		}
		out.Messages = append(out.Messages, jsonMessage{
			Role:      role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.UTC(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
