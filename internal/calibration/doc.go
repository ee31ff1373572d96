// Package calibration measures the fork-join integration time for a range
// of worker counts, reports the fastest and caches it in a JSON profile so
// later runs can pick it up when no worker count is configured.
package calibration
