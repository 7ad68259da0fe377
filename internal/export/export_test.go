// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

func sampleTranscript() *Transcript {
	created := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	return &Transcript{
		Conversation: model.Conversation{ChatID: "c1", Title: "Trip: plans", CreatedAt: created},
		Messages: []model.Message{
			{ID: "1", Role: model.RoleUser, Content: "Where to?", CreatedAt: created},
			{ID: "2", Role: model.RoleAssistant, Content: "**Hanoi**", CreatedAt: created.Add(time.Minute)},
		},
		ExportedAt: created.Add(time.Hour),
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"title: \"Trip: plans\"",
		"chat_id: c1",
		"messages: 2",
		"# Trip: plans",
		"### You <sub>2025-02-03 10:00:00</sub>",
		"### AI",
		"**Hanoi**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestMarkdownWithoutMetadata(t *testing.T) {
	opts := &Options{OutputDir: ".", IncludeMetadata: false, IncludeTimestamps: false}
	out, err := NewMarkdownExporter(opts).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.HasPrefix(string(out), "---") {
		t.Error("front matter written without IncludeMetadata")
	}
	if strings.Contains(string(out), "<sub>") {
		t.Error("timestamps written without IncludeTimestamps")
	}
}

func TestJSONExport(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded jsonTranscript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.ChatID != "c1" || len(decoded.Messages) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded.Messages[0].Role != "user" || decoded.Messages[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", decoded.Messages[0].Role, decoded.Messages[1].Role)
	}
	if decoded.CreatedAt == nil {
		t.Error("created_at missing with metadata enabled")
	}
}

func TestHTMLExport(t *testing.T) {
	tr := sampleTranscript()
	tr.Messages = append(tr.Messages, model.Message{
		ID:        "3",
		Role:      model.RoleAssistant,
		Content:   "Try `go run`.\n\n```go\nfmt.Println(\"<hi>\")\n```\nDone & dusted",
		CreatedAt: tr.ExportedAt,
	})

	out, err := NewHTMLExporter(nil).Export(tr)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	page := string(out)

	for _, want := range []string{
		"<title>Trip: plans</title>",
		"<body class=\"dark-theme\">",
		"<strong>Messages:</strong> 3",
		"<div class=\"message user-message\">",
		"<span class=\"role-label\">AI</span>",
		"<code class=\"inline-code\">go run</code>",
		"<div class=\"code-lang\">go</div>",
		"fmt.Println(&#34;&lt;hi&gt;&#34;)",
		"<p>Done &amp; dusted</p>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if strings.Contains(page, "<hi>") {
		t.Error("message content must be escaped")
	}
}

func TestHTMLExportLightTheme(t *testing.T) {
	opts := DefaultOptions()
	opts.Theme = "light"
	opts.IncludeMetadata = false

	out, err := NewHTMLExporter(opts).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	page := string(out)
	if !strings.Contains(page, "<body class=\"light-theme\">") {
		t.Error("light theme not applied")
	}
	if strings.Contains(page, "<strong>Chat:</strong>") {
		t.Error("metadata should be omitted")
	}
}

func TestEmptyTranscriptRejected(t *testing.T) {
	empty := &Transcript{Conversation: model.Conversation{ChatID: "c1"}}
	for _, exp := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil), NewHTMLExporter(nil)} {
		if _, err := exp.Export(empty); !errors.Is(err, ErrEmptyTranscript) {
			t.Errorf("%T: err = %v, want ErrEmptyTranscript", exp, err)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"", ".md", false},
		{"markdown", ".md", false},
		{"JSON", ".json", false},
		{"html", ".html", false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		exp, err := ForFormat(tt.format, nil)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForFormat(%q) expected error", tt.format)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForFormat(%q) error = %v", tt.format, err)
		}
		if exp.FileExtension() != tt.ext {
			t.Errorf("ForFormat(%q).FileExtension() = %q, want %q", tt.format, exp.FileExtension(), tt.ext)
		}
	}
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(sampleTranscript(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile() error = %v", err)
	}
	if filepath.Base(path) != "conversation_Trip-_plans_20250203_110000.md" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "**Hanoi**") {
		t.Error("exported file missing content")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"a/b:c":       "a-b-c",
		"hello world": "hello_world",
		"":            "conversation",
		"x\x01y":      "x-y",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
