// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jeranaias/rigchat-tui/internal/model"
)

var (
	codeBlockRegex  = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)```")
	inlineCodeRegex = regexp.MustCompile("`([^`\n]+)`")
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if tr == nil || len(tr.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}
	title := html.EscapeString(tr.Conversation.DisplayTitle())

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"rigchat\">\n")
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.theme())
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		e.renderHeader(&sb, tr)
	} else {
		fmt.Fprintf(&sb, "        <header class=\"header\"><h1>%s</h1></header>\n", title)
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range tr.Messages {
		e.renderMessage(&sb, msg)
	}
	sb.WriteString("        </main>\n")

	if !tr.ExportedAt.IsZero() {
		fmt.Fprintf(&sb, "        <footer class=\"footer\">Exported from <strong>rigchat</strong> on %s</footer>\n",
			tr.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
	}
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) theme() string {
	if strings.EqualFold(e.options.Theme, "light") {
		return "light"
	}
	return "dark"
}

// =============================================================================
// RENDERING
// =============================================================================

func (e *HTMLExporter) renderHeader(sb *strings.Builder, tr *Transcript) {
	conv := tr.Conversation
	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(sb, "            <h1>%s</h1>\n", html.EscapeString(conv.DisplayTitle()))
	sb.WriteString("            <div class=\"metadata\">\n")
	fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Chat:</strong> %s</span>\n", html.EscapeString(conv.ChatID))
	if !conv.CreatedAt.IsZero() {
		fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(conv.CreatedAt))
	}
	fmt.Fprintf(sb, "                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(tr.Messages))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")
}

func (e *HTMLExporter) renderMessage(sb *strings.Builder, msg model.Message) {
	fmt.Fprintf(sb, "            <div class=\"message %s-message\">\n", msg.Role.String())
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(sb, "                    <span class=\"role-label\">%s</span>\n", msg.Role.DisplayName())
	if e.options.IncludeTimestamps && !msg.CreatedAt.IsZero() {
		fmt.Fprintf(sb, "                    <span class=\"timestamp\">%s</span>\n", msg.CreatedAt.Format(time.Kitchen))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")
	sb.WriteString(formatHTMLContent(msg.Content))
	sb.WriteString("\n                </div>\n")
	sb.WriteString("            </div>\n")
}

// formatHTMLContent escapes content and turns fenced and inline code into
// markup. Text outside code blocks becomes paragraphs split on blank lines.
func formatHTMLContent(content string) string {
	var sb strings.Builder
	rest := content
	for {
		loc := codeBlockRegex.FindStringSubmatchIndex(rest)
		if loc == nil {
			writeParagraphs(&sb, rest)
			break
		}
		writeParagraphs(&sb, rest[:loc[0]])

		lang := rest[loc[2]:loc[3]]
		code := strings.TrimRight(rest[loc[4]:loc[5]], "\n")
		sb.WriteString("<div class=\"code-block\">")
		if lang != "" {
			fmt.Fprintf(&sb, "<div class=\"code-lang\">%s</div>", html.EscapeString(lang))
		}
		fmt.Fprintf(&sb, "<pre><code class=\"language-%s\">%s</code></pre></div>\n",
			html.EscapeString(lang), html.EscapeString(code))

		rest = rest[loc[1]:]
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeParagraphs(sb *strings.Builder, text string) {
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		escaped := html.EscapeString(para)
		escaped = inlineCodeRegex.ReplaceAllString(escaped, "<code class=\"inline-code\">$1</code>")
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		sb.WriteString("<p>" + escaped + "</p>\n")
	}
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const htmlCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }

        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", "Source Code Pro", monospace;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --bg-tertiary: #414868;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --user-bg: #1f2335;
            --assistant-bg: #24283b;
            --code-bg: #1a1b26;
            --accent-user: #7aa2f7;
            --accent-assistant: #bb9af7;
        }

        .light-theme {
            --bg-primary: #ffffff;
            --bg-secondary: #f7f8fa;
            --bg-tertiary: #e1e4e8;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --user-bg: #f6f8fa;
            --assistant-bg: #ffffff;
            --code-bg: #f6f8fa;
            --accent-user: #0366d6;
            --accent-assistant: #6f42c1;
        }

        body {
            font-family: var(--font-sans);
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container { max-width: 900px; margin: 0 auto; background: var(--bg-secondary); border-radius: 12px; overflow: hidden; }
        .header { padding: 32px; background: var(--bg-tertiary); }
        .header h1 { font-size: 28px; margin-bottom: 12px; }
        .metadata { display: flex; flex-wrap: wrap; gap: 16px; font-size: 14px; color: var(--text-muted); }
        .conversation { padding: 24px; }
        .message { padding: 16px 20px; margin-bottom: 16px; border-radius: 8px; }
        .user-message { background: var(--user-bg); border-left: 4px solid var(--accent-user); }
        .assistant-message { background: var(--assistant-bg); border-left: 4px solid var(--accent-assistant); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 8px; font-weight: 600; }
        .timestamp { font-size: 12px; font-weight: 400; color: var(--text-muted); }
        .message-content p { margin-bottom: 8px; }
        .code-block { margin: 12px 0; background: var(--code-bg); border-radius: 6px; overflow-x: auto; }
        .code-lang { padding: 4px 12px; font-size: 12px; color: var(--text-muted); }
        pre { padding: 12px; font-family: var(--font-mono); font-size: 14px; }
        .inline-code { font-family: var(--font-mono); background: var(--code-bg); padding: 2px 4px; border-radius: 3px; }
        .footer { padding: 16px 32px; font-size: 13px; color: var(--text-muted); text-align: center; }
    </style>
`
