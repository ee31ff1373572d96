// Package tui implements the interactive dashboard: the refinement trace
// on the left, runtime metrics and a convergence chart with system
// sparklines on the right.
package tui
