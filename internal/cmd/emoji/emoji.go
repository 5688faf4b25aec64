// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by command output.
const (
	// Success marks completed operations and configured states.
	Success = "✓"

	// Error marks failures and missing required configuration.
	Error = "✗"

	// Warning marks non-fatal problems.
	Warning = "!"

	// Optional marks skipped work.
	Optional = "-"

	// Info marks informational messages.
	Info = "i"
)
