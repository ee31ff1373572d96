// Package logging provides the logging interface used across quadcalc.
// Long-running components take a Logger; numeric packages take a
// zerolog.Logger directly and default to zerolog.Nop().
package logging
