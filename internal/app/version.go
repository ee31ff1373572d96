package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Build information, overridden at link time:
//
//	go build -ldflags "-X github.com/agbru/quadcalc/internal/app.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version. Only the first
// argument is inspected so that flag values are never mistaken for it.
func HasVersionFlag(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "--version", "-version", "-V":
		return true
	}
	return false
}

// PrintVersion writes the version banner. Without link-time values the
// module version recorded by the toolchain is used.
func PrintVersion(out io.Writer) {
	version := Version
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	fmt.Fprintf(out, "quadcalc %s\n", version)
	fmt.Fprintf(out, "  commit:  %s\n", Commit)
	fmt.Fprintf(out, "  built:   %s\n", BuildDate)
	fmt.Fprintf(out, "  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
