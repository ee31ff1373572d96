package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the status indicator and key hints.
type FooterModel struct {
	hints  []key.Binding
	width  int
	paused bool
	done   bool
	err    bool
}

// NewFooterModel creates a footer advertising the short help of km.
func NewFooterModel(km KeyMap) FooterModel { return FooterModel{hints: km.ShortHelp()} }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetPaused toggles the paused indicator.
func (f *FooterModel) SetPaused(p bool) { f.paused = p }

// SetDone toggles the done indicator.
func (f *FooterModel) SetDone(d bool) { f.done = d }

// SetError toggles the error indicator.
func (f *FooterModel) SetError(e bool) { f.err = e }

func (f FooterModel) status() string {
	switch {
	case f.err:
		return statusErrorStyle.Render("● ERROR")
	case f.done:
		return statusDoneStyle.Render("● DONE")
	case f.paused:
		return statusPausedStyle.Render("● PAUSED")
	default:
		return statusRunningStyle.Render("● RUNNING")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	parts := make([]string, 0, len(f.hints))
	for _, b := range f.hints {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(parts, "  ")
	right := f.status() + " "
	gap := max(1, f.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + spaces(gap) + right
}
