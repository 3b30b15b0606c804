// SPDX-License-Identifier: MPL-2.0

package script

import "strings"

type (
	// Function is one bash function discovered inside a ScriptFile.
	Function struct {
		// Name is the shell identifier of the function.
		Name string
		// Description is the doc comment block immediately preceding the
		// declaration, joined into a single line. Empty means "no description".
		Description string
		// StartLine is the 1-based line of the declaration.
		StartLine int
		// EndLine is the 1-based line of the closing brace.
		EndLine int
		// Hidden marks functions whose name starts with an underscore.
		// They are catalogued but excluded from listings and ranking by default.
		Hidden bool
		// File is a back-reference to the owning script. Set by the catalog
		// builder; nil for functions produced by a bare Parse call.
		File *ScriptFile
	}

	// ScriptFile is one discovered script with its extracted functions.
	// Instances are created during a catalog build and immutable afterwards.
	ScriptFile struct {
		// Path is the absolute path to the file.
		Path string
		// Name is the display name, derived from the file name.
		Name string
		// Description is the file-level doc header, if any.
		Description string
		// Functions are the extracted functions in source order.
		Functions []*Function
	}
)

// ID returns a stable synthetic identifier for the function. Function
// names are not globally unique, so the identifier qualifies the name
// with the owning file's path.
func (f *Function) ID() string {
	if f.File == nil {
		return f.Name
	}
	return f.Name + "@" + f.File.Path
}

// Label returns the human-facing candidate label used by listings and
// the picker: the function name, disambiguated by the owning file.
func (f *Function) Label() string {
	if f.File == nil {
		return f.Name
	}
	return f.Name + " (" + f.File.Name + ")"
}

// DisplayName derives a script display name from a file name by
// trimming a recognised shell extension.
func DisplayName(fileName string) string {
	for _, ext := range []string{".sh", ".bash"} {
		if trimmed, ok := strings.CutSuffix(fileName, ext); ok && trimmed != "" {
			return trimmed
		}
	}
	return fileName
}
