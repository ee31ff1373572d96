package ui

// Color accessors read the active theme on every call so a theme change
// applies to output already being produced.

// ColorReset returns the reset sequence.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the secondary color.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold sequence.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline sequence.
func ColorUnderline() string { return GetCurrentTheme().Underline }
