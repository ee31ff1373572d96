package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// Tests in this file mutate the global theme and therefore do not run in
// parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"solarized", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) activated %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("--no-color should disable every sequence")
	}
	if _, ok := GetCurrentTUITheme().Accent.(lipgloss.NoColor); !ok {
		t.Error("TUI palette should follow the no-color theme")
	}

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Error("NO_COLOR should disable colors")
	}
}

func TestColorAccessors(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	pairs := map[string][2]string{
		"red":       {ColorRed(), DarkTheme.Error},
		"green":     {ColorGreen(), DarkTheme.Success},
		"yellow":    {ColorYellow(), DarkTheme.Warning},
		"blue":      {ColorBlue(), DarkTheme.Primary},
		"magenta":   {ColorMagenta(), DarkTheme.Info},
		"cyan":      {ColorCyan(), DarkTheme.Secondary},
		"bold":      {ColorBold(), DarkTheme.Bold},
		"underline": {ColorUnderline(), DarkTheme.Underline},
		"reset":     {ColorReset(), DarkTheme.Reset},
	}
	for name, p := range pairs {
		if p[0] != p[1] || p[0] == "" {
			t.Errorf("%s = %q, want %q", name, p[0], p[1])
		}
	}
	if GetCurrentTUITheme() != DarkTUITheme {
		t.Error("dark theme should use the dark dashboard palette")
	}
}
