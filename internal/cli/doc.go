// Package cli renders quadcalc runs on a terminal: the execution banner,
// the refinement trace or progress spinner, the comparison table, the final
// result and the sweep table.
//
// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Write* functions write to the filesystem.
package cli
