// SPDX-License-Identifier: MPL-2.0

package script

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	// SkipNone means the entry is eligible.
	SkipNone SkipReason = ""
	// SkipDirectory means the entry is a directory; directories are
	// traversed, never parsed.
	SkipDirectory SkipReason = "directory"
	// SkipBinary means content inspection classified the file as binary.
	SkipBinary SkipReason = "binary content"
	// SkipEmpty means the file has no content.
	SkipEmpty SkipReason = "empty file"
	// SkipUnreadable means the file could not be opened or read.
	SkipUnreadable SkipReason = "unreadable"
)

// SkipReason explains why a filesystem entry is not an eligible script.
type SkipReason string

// sniffLen is how much of the file is inspected for the binary check,
// matching the window http.DetectContentType considers.
const sniffLen = 512

// Eligible reports whether the entry at path is a parseable text
// script. It never returns an error: unreadable files are reported as
// ineligible with SkipUnreadable, so a single bad entry cannot abort a
// directory walk. The underlying error, when any, is returned for
// diagnostics.
func Eligible(path string) (bool, SkipReason, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, SkipUnreadable, err
	}
	if info.IsDir() {
		return false, SkipDirectory, nil
	}
	if info.Size() == 0 {
		return false, SkipEmpty, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, SkipUnreadable, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, SkipUnreadable, err
	}
	buf = buf[:n]
	if n == 0 {
		return false, SkipEmpty, nil
	}

	if looksBinary(buf) {
		return false, SkipBinary, nil
	}
	return true, SkipNone, nil
}

// looksBinary is a byte-content heuristic, not an extension check: a
// NUL byte in the sniff window, or a content type that does not decode
// as text, classifies the file as binary.
func looksBinary(buf []byte) bool {
	if bytes.IndexByte(buf, 0x00) >= 0 {
		return true
	}
	ctype := http.DetectContentType(buf)
	return !strings.HasPrefix(ctype, "text/")
}
