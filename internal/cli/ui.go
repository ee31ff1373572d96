package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the number of cells in the convergence bar.
	ProgressBarWidth = 40
)

// spinnerCharset is the braille dot cycle.
var spinnerCharset = spinner.CharSets[11]

// Spinner is the subset of a terminal spinner the progress display drives.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// terminalSpinner guards suffix writes with the spinner's own lock, since
// the animation goroutine reads it concurrently.
type terminalSpinner struct {
	*spinner.Spinner
}

func (t terminalSpinner) UpdateSuffix(suffix string) {
	t.Lock()
	t.Suffix = suffix
	t.Unlock()
}

// newSpinner is swapped out by tests.
var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinnerCharset, ProgressRefreshRate,
		spinner.WithWriter(out),
		spinner.WithHiddenCursor(true),
	)
	s.Prefix = " "
	return terminalSpinner{s}
}
