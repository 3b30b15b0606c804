// SPDX-License-Identifier: MPL-2.0

// Package runtime is the execution bridge: it materializes a transient
// wrapper script that sources the owning file and invokes the chosen
// function with safely quoted arguments, spawns it with inherited
// stdio, and guarantees wrapper cleanup on every exit path while
// forwarding the child's exit code verbatim.
package runtime
