// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"shelf-cli/internal/runtime"
)

// ExitError carries an exit status out of a RunE handler, most often
// the child function's own code forwarded verbatim. Returning it
// instead of calling os.Exit inline lets deferred cleanup along the
// call chain finish before Execute terminates the process.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error reports the wrapped error's message, or the bare exit status
// when the exit carries no message of its own.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *ExitError) Unwrap() error {
	return e.Err
}
