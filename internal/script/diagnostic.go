// SPDX-License-Identifier: MPL-2.0

package script

import "fmt"

const (
	// SeverityWarning indicates a recoverable diagnostic (a skipped file,
	// an excluded function).
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal error diagnostic (an unreadable
	// file that should have been readable).
	SeverityError Severity = "error"
)

const (
	// DiagUnreadable marks a file that could not be opened or read.
	DiagUnreadable Kind = "unreadable_file"
	// DiagBinarySkip marks a file skipped because its content looks binary.
	DiagBinarySkip Kind = "binary_file_skipped"
	// DiagEmptySkip marks a file skipped because it is empty.
	DiagEmptySkip Kind = "empty_file_skipped"
	// DiagMalformedFunction marks a declaration with no matching closing
	// brace before end of file. The function is excluded from results.
	DiagMalformedFunction Kind = "malformed_function"
	// DiagInvalidName marks a declaration whose name is not a valid shell
	// identifier. The function is excluded from results.
	DiagInvalidName Kind = "invalid_function_name"
	// DiagNameCollision marks a function name defined in more than one
	// file. Both definitions stay in the catalog.
	DiagNameCollision Kind = "name_collision"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Kind is the closed set of diagnostic categories. Callers branch on
	// Kind rather than parsing message strings.
	Kind string

	// Diagnostic is a structured, non-fatal finding produced while
	// building a catalog. Diagnostics are returned to callers (rather
	// than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Kind is the machine-readable category.
		Kind Kind
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Function is the function name involved (optional).
		Function string
		// Line is the 1-based source line involved (0 when not applicable).
		Line int
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String renders the diagnostic for log output.
func (d Diagnostic) String() string {
	loc := d.Path
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
	if loc == "" {
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", d.Kind, loc, d.Message)
}
