// Package orchestration runs one or more integration strategies
// concurrently, streams their refinement steps to a progress reporter and
// cross-checks the estimates. Presentation is left to the ProgressReporter
// and ResultPresenter implementations supplied by the caller.
package orchestration
