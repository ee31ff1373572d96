package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a set of ANSI escape sequences, one per semantic role.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

const (
	escBold      = "\033[1m"
	escUnderline = "\033[4m"
	escReset     = "\033[0m"
)

// fg256 returns the escape sequence selecting xterm-256 color n.
func fg256(n int) string { return fmt.Sprintf("\033[38;5;%dm", n) }

// palette builds a Theme from xterm-256 color numbers in the order
// primary, secondary, success, warning, error, info.
func palette(name string, primary, secondary, success, warning, failure, info int) Theme {
	return Theme{
		Name:      name,
		Primary:   fg256(primary),
		Secondary: fg256(secondary),
		Success:   fg256(success),
		Warning:   fg256(warning),
		Error:     fg256(failure),
		Info:      fg256(info),
		Bold:      escBold,
		Underline: escUnderline,
		Reset:     escReset,
	}
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = palette("dark", 39, 245, 82, 220, 196, 141)
	// LightTheme uses darker tones for light backgrounds.
	LightTheme = palette("light", 27, 240, 28, 130, 124, 54)
	// NoColorTheme disables every escape sequence.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

// DarkTUITheme is the default dashboard palette.
var DarkTUITheme = TUITheme{
	Text:    lipgloss.Color("#DCDFE4"),
	Border:  lipgloss.Color("#4C8DFF"),
	Accent:  lipgloss.Color("#56B6C2"),
	Success: lipgloss.Color("#98C379"),
	Warning: lipgloss.Color("#E5C07B"),
	Error:   lipgloss.Color("#E06C75"),
	Dim:     lipgloss.Color("#5C6370"),
	Info:    lipgloss.Color("#C678DD"),
}

// NoColorTUITheme renders with the terminal's default colors.
var NoColorTUITheme = func() TUITheme {
	none := lipgloss.NoColor{}
	return TUITheme{Text: none, Border: none, Accent: none, Success: none, Warning: none, Error: none, Dim: none, Info: none}
}()

// GetCurrentTUITheme returns the dashboard palette matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name ("dark", "light" or "none"). Unknown
// names select the dark theme.
func SetTheme(name string) {
	switch name {
	case LightTheme.Name:
		SetCurrentTheme(LightTheme)
	case NoColorTheme.Name:
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme disables colors when noColor is set or NO_COLOR is present in
// the environment (https://no-color.org/), and selects the dark theme
// otherwise.
func InitTheme(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
