// SPDX-License-Identifier: MPL-2.0

// Package script models bash script files and the functions defined in
// them. It owns the content-based eligibility filter and the function
// extractor, a line-oriented scanner that tracks brace depth, attaches
// doc comments to declarations, and treats here-doc bodies as opaque
// text. Extraction never hard-fails: anything excluded is reported as
// a structured diagnostic.
package script
