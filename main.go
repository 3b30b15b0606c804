// SPDX-License-Identifier: MPL-2.0

// shelf turns a directory tree of bash scripts into a fuzzy-searchable
// menu of runnable functions.
package main

import cmd "shelf-cli/cmd/shelf"

func main() {
	cmd.Execute()
}
