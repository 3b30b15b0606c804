// SPDX-License-Identifier: MPL-2.0

// Package discovery builds the per-invocation catalog of scripts and
// functions: it walks the configured roots, applies the text
// eligibility filter, runs the function extractor on each eligible
// file, and aggregates the results with structured diagnostics.
package discovery
