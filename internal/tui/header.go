package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/format"
)

// HeaderModel is the top bar. The left side names the program and the
// integral; the right side shows the run settings and the elapsed time.
type HeaderModel struct {
	version  string
	problem  string
	settings string
	started  time.Time
	stopped  time.Time
	width    int
}

// NewHeaderModel starts the elapsed clock.
func NewHeaderModel(version, problem, settings string) HeaderModel {
	return HeaderModel{version: version, problem: problem, settings: settings, started: time.Now()}
}

// SetDone stops the clock.
func (h *HeaderModel) SetDone() { h.stopped = time.Now() }

// Reset restarts the clock.
func (h *HeaderModel) Reset() {
	h.started = time.Now()
	h.stopped = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed is the time since start, or the frozen run time once done.
func (h HeaderModel) Elapsed() time.Duration {
	if h.stopped.IsZero() {
		return time.Since(h.started)
	}
	return h.stopped.Sub(h.started)
}

// View renders the header.
func (h HeaderModel) View() string {
	name := "quadcalc"
	if h.version != "" && h.version != "dev" {
		name += " " + h.version
	}
	sep := versionStyle.Render(" │ ")

	left := []string{titleStyle.Render(name)}
	if h.problem != "" {
		left = append(left, versionStyle.Render(h.problem))
	}
	right := []string{elapsedStyle.Render(format.FormatExecutionDuration(h.Elapsed()))}
	if h.settings != "" {
		right = append([]string{versionStyle.Render(h.settings)}, right...)
	}

	l, r := strings.Join(left, sep), strings.Join(right, sep)
	inner := max(0, h.width-2)
	gap := inner - lipgloss.Width(l) - lipgloss.Width(r)
	if gap < 1 {
		// Too narrow for both sides: drop the settings.
		return headerStyle.Width(h.width).Render(l + sep + elapsedStyle.Render(format.FormatExecutionDuration(h.Elapsed())))
	}
	return headerStyle.Width(h.width).Render(l + spaces(gap) + r)
}

func spaces(n int) string { return strings.Repeat(" ", max(0, n)) }
