// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/rigchat-tui/internal/model"
	"github.com/jeranaias/rigchat-tui/internal/util"
)

const timeLayout = "2006-01-02 15:04"

// FormatConversationLine renders one numbered list entry within width
// columns. index is 1-based.
func FormatConversationLine(index int, conv model.Conversation, width int) string {
	prefix := fmt.Sprintf("%3d. ", index)
	stamp := conv.CreatedAt.Local().Format(timeLayout)

	titleWidth := width - len(prefix) - len(stamp) - 2
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := util.PadWidth(util.TruncateWidth(conv.DisplayTitle(), titleWidth), titleWidth)
	return prefix + title + "  " + RenderConditional(DimStyle, stamp)
}

// FormatConversationList renders convs numbered from 1.
func FormatConversationList(convs []model.Conversation, width int) string {
	if len(convs) == 0 {
		return RenderConditional(DimStyle, "No conversations yet") + "\n"
	}
	var b strings.Builder
	for i, conv := range convs {
		b.WriteString(FormatConversationLine(i+1, conv, width))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatMessage renders a transcript entry as "You: ..." or "AI: ...".
func FormatMessage(msg model.Message) string {
	style := AssistantStyle
	if msg.IsUser() {
		style = UserStyle
	}
	return RenderConditional(style, msg.Role.DisplayName()+":") + " " + msg.Content
}
