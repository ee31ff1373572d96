// Package ui holds the terminal color themes shared by the CLI, the error
// handler and the TUI dashboard. ANSI sequences come from the active Theme;
// lipgloss colors from the matching TUITheme.
package ui
