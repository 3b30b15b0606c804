// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error types. Fatal
// errors carry the operation being attempted, the resource involved,
// and suggestions for recovery, so the CLI layer never surfaces a raw
// OS error on its own.
package issue
