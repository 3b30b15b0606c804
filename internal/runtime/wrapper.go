// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"mvdan.cc/sh/v3/syntax"

	"shelf-cli/internal/script"
)

// wrapperBanner identifies leftover wrappers to anyone who finds one
// after a crash.
const wrapperBanner = "# Transient shelf wrapper used to execute one script function.\n" +
	"# If you can see this file, the run that created it is gone and it is safe to delete.\n"

// WrapperContent renders the transient wrapper: a shebang for the
// interpreter, a source statement for the owning script, and the
// function invocation with every argument quoted individually, so
// argument content is passed through literally and never re-interpreted
// by the shell.
func WrapperContent(interpreter string, fn *script.Function, args []string) (string, error) {
	quotedPath, err := syntax.Quote(fn.File.Path, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote script path %q: %w", fn.File.Path, err)
	}

	invocation := make([]string, 0, len(args)+1)
	invocation = append(invocation, fn.Name)
	for _, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote argument %q: %w", arg, err)
		}
		invocation = append(invocation, quoted)
	}

	var b strings.Builder
	b.WriteString("#!")
	b.WriteString(interpreter)
	b.WriteString("\n#\n")
	b.WriteString(wrapperBanner)
	b.WriteString("\nsource ")
	b.WriteString(quotedPath)
	b.WriteString("\n")
	b.WriteString(strings.Join(invocation, " "))
	b.WriteString("\n")
	return b.String(), nil
}

// wrapperPath computes a unique wrapper location inside dir. The
// random suffix keeps concurrent invocations, and leftovers from
// crashed ones, from colliding in the shared temp namespace.
func wrapperPath(dir string) string {
	return filepath.Join(dir, "shelf-run-"+uuid.NewString()+".sh")
}

// writeWrapper materializes the wrapper on disk, executable by the
// owner only. O_EXCL guarantees we never clobber a concurrent
// invocation's file.
func writeWrapper(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o700)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
