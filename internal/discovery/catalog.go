// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"

	"shelf-cli/internal/script"
)

// ErrInvalidRoot is the sentinel error wrapped by InvalidRootError.
var ErrInvalidRoot = errors.New("invalid search root")

type (
	// InvalidRootError is returned when a configured search root does not
	// exist or is not a directory. This is a configuration error reported
	// once, before any walking, never a per-file diagnostic.
	InvalidRootError struct {
		Root string
	}

	// Catalog is the aggregate of all discovered scripts under the
	// configured roots for one invocation. It is built fresh per run and
	// never persisted; an empty catalog is valid.
	Catalog struct {
		// Scripts are the discovered files in deterministic walk order.
		Scripts []*script.ScriptFile
		// Diagnostics are the non-fatal findings collected during the
		// build (skipped files, parse exclusions, name collisions).
		Diagnostics []script.Diagnostic

		// functions caches the flattened discovery-order view.
		functions []*script.Function
	}
)

// Error implements the error interface.
func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("search root %q does not exist or is not a directory", e.Root)
}

// Unwrap returns ErrInvalidRoot so callers can use errors.Is.
func (e *InvalidRootError) Unwrap() error { return ErrInvalidRoot }

// Functions returns all catalogued functions in stable discovery
// order: scripts in walk order, functions in source order.
func (c *Catalog) Functions() []*script.Function {
	if c.functions == nil {
		for _, s := range c.Scripts {
			c.functions = append(c.functions, s.Functions...)
		}
	}
	return c.functions
}

// Visible returns the catalogued functions excluding hidden ones
// (names starting with an underscore) unless includeHidden is set.
func (c *Catalog) Visible(includeHidden bool) []*script.Function {
	if includeHidden {
		return c.Functions()
	}
	visible := make([]*script.Function, 0, len(c.Functions()))
	for _, fn := range c.Functions() {
		if !fn.Hidden {
			visible = append(visible, fn)
		}
	}
	return visible
}

// Script returns the catalogued script with the given display name, or
// nil if none matches.
func (c *Catalog) Script(name string) *script.ScriptFile {
	for _, s := range c.Scripts {
		if s.Name == name {
			return s
		}
	}
	return nil
}
