// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"DEBUG", log.DebugLevel, false},
		{"warning", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"loud", log.InfoLevel, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rigchat.log")

	logger, closer, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("conversation page loaded", "count", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "conversation page loaded") || !strings.Contains(string(data), "count=3") {
		t.Errorf("log file missing entry: %q", string(data))
	}
}

func TestNew_NoFileDiscards(t *testing.T) {
	logger, closer, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer closer.Close()
	logger.Info("dropped")
}
