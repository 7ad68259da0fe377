// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the rigchat TUI.

# Colors (colors.go)

All colors are Lip Gloss AdaptiveColor values so light and dark terminals
both render legibly:

	Purple, Cyan   - accents (assistant, user, selection)
	Emerald, Rose  - success and error states
	Surface*       - layered backgrounds
	Text*          - primary, secondary and muted text

# Theme (theme.go)

	theme := styles.NewTheme(styles.ModeAuto)
	if theme.IsDark {
		// Dark terminal detected
	}

ModeDark and ModeLight force the background detection, which is useful
when the terminal does not answer the background query.
*/
package styles
