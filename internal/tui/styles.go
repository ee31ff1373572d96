package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/quadcalc/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	logTimeStyle       lipgloss.Style
	logStrategyStyle   lipgloss.Style
	logTraceStyle      lipgloss.Style
	logSuccessStyle    lipgloss.Style
	logErrorStyle      lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	chartBarStyle      lipgloss.Style
	chartEmptyStyle    lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds the styles from the current ui theme. Run calls it
// again after the application has picked its theme.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)
	headerStyle = fg(t.Accent).Bold(true).Padding(0, 1)
	titleStyle = fg(t.Accent).Bold(true)
	versionStyle = fg(t.Dim)
	elapsedStyle = fg(t.Accent)

	logTimeStyle = fg(t.Dim)
	logStrategyStyle = fg(t.Info)
	logTraceStyle = fg(t.Text)
	logSuccessStyle = fg(t.Success)
	logErrorStyle = fg(t.Error)

	metricLabelStyle = fg(t.Dim)
	metricValueStyle = fg(t.Accent).Bold(true)

	chartBarStyle = fg(t.Accent)
	chartEmptyStyle = fg(t.Dim)

	footerKeyStyle = fg(t.Accent).Bold(true)
	footerDescStyle = fg(t.Dim)

	statusRunningStyle = fg(t.Success).Bold(true)
	statusPausedStyle = fg(t.Warning).Bold(true)
	statusDoneStyle = fg(t.Accent).Bold(true)
	statusErrorStyle = fg(t.Error).Bold(true)

	cpuSparklineStyle = fg(t.Accent)
	memSparklineStyle = fg(t.Warning)
}
