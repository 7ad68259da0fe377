// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"dark", ModeDark},
		{" Light ", ModeLight},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"neon", ModeAuto},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewThemeForcedModes(t *testing.T) {
	dark := NewTheme(ModeDark)
	if !dark.IsDark {
		t.Error("ModeDark should report a dark background")
	}
	if dark.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle() = %q, want dark", dark.GlamourStyle())
	}

	light := NewTheme(ModeLight)
	if light.IsDark {
		t.Error("ModeLight should report a light background")
	}
	if light.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle() = %q, want light", light.GlamourStyle())
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)
	if theme.SidebarEmpty.Render("No conversations yet") == "" {
		t.Error("SidebarEmpty should render text")
	}
	if theme.UserLabel.Render("You") == "" {
		t.Error("UserLabel should render text")
	}
}
