// SPDX-License-Identifier: MPL-2.0

package runtime

// Result contains the outcome of one function execution.
type Result struct {
	// ExitCode is the child's exit code, forwarded verbatim. A nonzero
	// exit from the function itself is not a tool-level error.
	ExitCode ExitCode
	// Error is set only for setup failures (wrapper write, spawn); it is
	// nil for a clean run regardless of exit code.
	Error error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewExitCodeResult creates a Result with the given exit code and no
// error. Use this for non-zero exits that represent normal process
// termination rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}
