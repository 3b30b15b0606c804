// SPDX-License-Identifier: MPL-2.0

package script

import (
	"strings"
	"testing"
)

func TestParse_DeclarationForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"posix", "deploy() {\n  echo hi\n}\n", "deploy"},
		{"keyword", "function deploy {\n  echo hi\n}\n", "deploy"},
		{"keyword_parens", "function deploy() {\n  echo hi\n}\n", "deploy"},
		{"spaced_parens", "deploy ( ) {\n  echo hi\n}\n", "deploy"},
		{"indented", "  deploy() {\n  echo hi\n  }\n", "deploy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Parse("test.sh", tt.src)
			if len(result.Functions) != 1 {
				t.Fatalf("Parse() found %d functions, want 1", len(result.Functions))
			}
			if got := result.Functions[0].Name; got != tt.want {
				t.Errorf("function name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_BraceOnNextLine(t *testing.T) {
	t.Parallel()

	src := "deploy()\n{\n  echo hi\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 {
		t.Fatalf("Parse() found %d functions, want 1", len(result.Functions))
	}
	fn := result.Functions[0]
	if fn.StartLine != 1 || fn.EndLine != 4 {
		t.Errorf("lines = %d-%d, want 1-4", fn.StartLine, fn.EndLine)
	}
}

func TestParse_Descriptions(t *testing.T) {
	t.Parallel()

	src := `#!/usr/bin/env bash
# Deployment helpers for the staging and production clusters.

# Deploy the current branch
# to the given environment.
deploy() {
  echo deploying
}

env_check() {
  true
}

# dangling comment not followed by a declaration
`
	result := Parse("deploy.sh", src)

	if want := "Deployment helpers for the staging and production clusters."; result.Description != want {
		t.Errorf("file description = %q, want %q", result.Description, want)
	}
	if len(result.Functions) != 2 {
		t.Fatalf("Parse() found %d functions, want 2", len(result.Functions))
	}
	if want := "Deploy the current branch to the given environment."; result.Functions[0].Description != want {
		t.Errorf("deploy description = %q, want %q", result.Functions[0].Description, want)
	}
	if result.Functions[1].Description != "" {
		t.Errorf("env_check description = %q, want empty", result.Functions[1].Description)
	}
}

func TestParse_BlankLineBreaksCommentAttachment(t *testing.T) {
	t.Parallel()

	src := "# orphaned remark\n\ndeploy() {\n  true\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 {
		t.Fatalf("Parse() found %d functions, want 1", len(result.Functions))
	}
	if got := result.Functions[0].Description; got != "" {
		t.Errorf("description = %q, want empty (comment separated by blank line)", got)
	}
	// The detached run becomes the file header instead.
	if result.Description != "orphaned remark" {
		t.Errorf("file description = %q, want %q", result.Description, "orphaned remark")
	}
}

func TestParse_ShebangNeverPartOfDescription(t *testing.T) {
	t.Parallel()

	src := "#!/bin/bash\ndeploy() {\n  true\n}\n"
	result := Parse("test.sh", src)
	if result.Description != "" {
		t.Errorf("file description = %q, want empty", result.Description)
	}
	if len(result.Functions) != 1 || result.Functions[0].Description != "" {
		t.Errorf("shebang leaked into function description: %+v", result.Functions)
	}
}

func TestParse_NestedBraces(t *testing.T) {
	t.Parallel()

	src := `outer() {
  if true; then
    { echo grouped; }
  fi
  local -A map=()
}
after() {
  true
}
`
	result := Parse("test.sh", src)
	if len(result.Functions) != 2 {
		t.Fatalf("Parse() found %d functions, want 2: %+v", len(result.Functions), result.Functions)
	}
	if result.Functions[0].EndLine != 6 {
		t.Errorf("outer EndLine = %d, want 6", result.Functions[0].EndLine)
	}
	if result.Functions[1].Name != "after" {
		t.Errorf("second function = %q, want %q", result.Functions[1].Name, "after")
	}
}

func TestParse_HereDocIsOpaque(t *testing.T) {
	t.Parallel()

	src := `emit() {
  cat <<EOF
} this unbalanced brace must not close the function
fake() {
EOF
  echo done
}
next() {
  true
}
`
	result := Parse("test.sh", src)
	if len(result.Functions) != 2 {
		t.Fatalf("Parse() found %d functions, want 2: %+v", len(result.Functions), result.Functions)
	}
	if result.Functions[0].Name != "emit" || result.Functions[0].EndLine != 7 {
		t.Errorf("emit = %q lines ?-%d, want emit ending at 7", result.Functions[0].Name, result.Functions[0].EndLine)
	}
	if result.Functions[1].Name != "next" {
		t.Errorf("second function = %q, want %q", result.Functions[1].Name, "next")
	}
}

func TestParse_HereDocVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"quoted_delimiter", "f() {\n  cat <<'END'\n}\nEND\n}\n"},
		{"double_quoted", "f() {\n  cat <<\"END\"\n}\nEND\n}\n"},
		{"dash_strip_tabs", "f() {\n  cat <<-END\n}\n\t\tEND\n}\n"},
		{"top_level", "cat <<EOF\nbogus() {\nEOF\nf() {\n  true\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := Parse("test.sh", tt.src)
			if len(result.Functions) != 1 {
				t.Fatalf("Parse() found %d functions, want 1: %+v", len(result.Functions), result.Functions)
			}
			if result.Functions[0].Name != "f" {
				t.Errorf("function = %q, want %q", result.Functions[0].Name, "f")
			}
		})
	}
}

func TestParse_HereDocOpenedOnClosingBraceLine(t *testing.T) {
	t.Parallel()

	// The here-doc operator and the closing brace share a line; the
	// delimiter must still be consumed before top-level scanning
	// resumes, or it would shadow the next function's here-doc.
	src := `emit() { cat <<EOF; }
body text
fake() {
EOF
next() {
  cat <<DONE
opaque
DONE
}
`
	result := Parse("test.sh", src)
	if len(result.Functions) != 2 {
		t.Fatalf("Parse() found %d functions, want 2: %+v", len(result.Functions), result.Functions)
	}
	if result.Functions[0].Name != "emit" || result.Functions[1].Name != "next" {
		t.Errorf("functions = %q, %q, want emit, next",
			result.Functions[0].Name, result.Functions[1].Name)
	}
	if result.Functions[1].EndLine != 9 {
		t.Errorf("next EndLine = %d, want 9", result.Functions[1].EndLine)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v, want none for a valid script", result.Diagnostics)
	}
}

func TestParse_RedefinedFunctionLastWins(t *testing.T) {
	t.Parallel()

	src := `# first version
deploy() {
  echo one
}

# second version
deploy() {
  echo two
}
`
	result := Parse("deploy.sh", src)
	if len(result.Functions) != 1 {
		t.Fatalf("Parse() found %d functions, want the redefinition collapsed to 1", len(result.Functions))
	}
	fn := result.Functions[0]
	if fn.StartLine != 7 || fn.Description != "second version" {
		t.Errorf("kept definition = %+v, want the later one (line 7)", fn)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != DiagNameCollision {
		t.Fatalf("diagnostics = %+v, want one redefinition finding", result.Diagnostics)
	}
	if d := result.Diagnostics[0]; d.Function != "deploy" || d.Line != 7 {
		t.Errorf("diagnostic = %+v, want function 'deploy' at line 7", d)
	}
}

func TestParse_MultipleHereDocsOneLine(t *testing.T) {
	t.Parallel()

	src := "f() {\n  diff <(cat <<A) <(cat <<B)\n} not code\nA\n} still not code\nB\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 {
		t.Fatalf("Parse() found %d functions, want 1: %+v", len(result.Functions), result.Functions)
	}
	if result.Functions[0].EndLine != 7 {
		t.Errorf("EndLine = %d, want 7", result.Functions[0].EndLine)
	}
}

func TestParse_HereStringIsNotHereDoc(t *testing.T) {
	t.Parallel()

	src := "f() {\n  grep x <<<\"literal\"\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 {
		t.Fatalf("Parse() found %d functions, want 1: %+v", len(result.Functions), result.Functions)
	}
	if result.Functions[0].EndLine != 3 {
		t.Errorf("EndLine = %d, want 3 (here-string must not open a here-doc)", result.Functions[0].EndLine)
	}
}

func TestParse_UnterminatedBody(t *testing.T) {
	t.Parallel()

	src := "broken() {\n  echo never closed\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 0 {
		t.Fatalf("Parse() found %d functions, want 0", len(result.Functions))
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(result.Diagnostics), result.Diagnostics)
	}
	d := result.Diagnostics[0]
	if d.Kind != DiagMalformedFunction {
		t.Errorf("diagnostic kind = %q, want %q", d.Kind, DiagMalformedFunction)
	}
	if d.Function != "broken" || d.Line != 1 {
		t.Errorf("diagnostic = %+v, want function 'broken' at line 1", d)
	}
}

func TestParse_InvalidNameExcluded(t *testing.T) {
	t.Parallel()

	src := "bad-name!() {\n  true\n}\ngood() {\n  true\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 || result.Functions[0].Name != "good" {
		t.Fatalf("Parse() = %+v, want only 'good'", result.Functions)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != DiagInvalidName {
		t.Fatalf("diagnostics = %+v, want one invalid-name finding", result.Diagnostics)
	}
}

func TestParse_ArrayAssignmentIsNotAFunction(t *testing.T) {
	t.Parallel()

	src := "arr=()\nf() {\n  true\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 || result.Functions[0].Name != "f" {
		t.Fatalf("Parse() = %+v, want only 'f'", result.Functions)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("diagnostics = %+v, want none for an array assignment", result.Diagnostics)
	}
}

func TestParse_HiddenFunctions(t *testing.T) {
	t.Parallel()

	src := "_helper() {\n  true\n}\npublic() {\n  true\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 2 {
		t.Fatalf("Parse() found %d functions, want 2", len(result.Functions))
	}
	if !result.Functions[0].Hidden {
		t.Errorf("_helper should be marked hidden")
	}
	if result.Functions[1].Hidden {
		t.Errorf("public should not be marked hidden")
	}
}

func TestParse_TrailingCommentIsHeaderOnlyWithoutFunctions(t *testing.T) {
	t.Parallel()

	src := "echo setup\n\n# Library of nothing, sourced for side effects.\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 0 {
		t.Fatalf("Parse() found %d functions, want 0", len(result.Functions))
	}
	if want := "Library of nothing, sourced for side effects."; result.Description != want {
		t.Errorf("file description = %q, want %q", result.Description, want)
	}
}

func TestParse_ManyFunctionsSourceOrder(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	names := []string{"alpha", "bravo", "charlie", "delta", "echo_fn"}
	for _, n := range names {
		b.WriteString("# doc for " + n + "\n" + n + "() {\n  true\n}\n\n")
	}

	result := Parse("test.sh", b.String())
	if len(result.Functions) != len(names) {
		t.Fatalf("Parse() found %d functions, want %d", len(result.Functions), len(names))
	}
	for i, fn := range result.Functions {
		if fn.Name != names[i] {
			t.Errorf("functions[%d] = %q, want %q (source order)", i, fn.Name, names[i])
		}
		if want := "doc for " + names[i]; fn.Description != want {
			t.Errorf("functions[%d] description = %q, want %q", i, fn.Description, want)
		}
	}
}

func TestParse_TrailingCommentStrippedFromBodyLines(t *testing.T) {
	t.Parallel()

	src := "f() {\n  echo hi # } not a real brace\n}\n"
	result := Parse("test.sh", src)
	if len(result.Functions) != 1 || result.Functions[0].EndLine != 3 {
		t.Fatalf("Parse() = %+v, want one function ending at 3", result.Functions)
	}
}

func TestParse_EmptySource(t *testing.T) {
	t.Parallel()

	result := Parse("test.sh", "")
	if len(result.Functions) != 0 || len(result.Diagnostics) != 0 || result.Description != "" {
		t.Errorf("Parse(\"\") = %+v, want empty result", result)
	}
}
