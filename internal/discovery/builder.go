// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"shelf-cli/internal/script"
)

// DefaultIgnore lists directory names that are never descended into:
// version-control metadata, editor state, and build output.
var DefaultIgnore = []string{".git", ".hg", ".svn", ".github", ".vscode", ".idea", "node_modules", "target"}

type (
	// Options configures a catalog build.
	Options struct {
		// Ignore is the set of directory names excluded from the walk.
		// Nil means DefaultIgnore.
		Ignore []string
		// Logger receives debug-level walk reporting. Nil means the
		// package default logger.
		Logger *log.Logger
	}

	// builder carries walk state for one Build call.
	builder struct {
		ignore  map[string]bool
		logger  *log.Logger
		visited map[string]bool
		catalog *Catalog
	}
)

// Build walks the given root directories, filters eligible text
// scripts, extracts their functions, and assembles the Catalog.
//
// A root that does not exist is a configuration error and aborts the
// build. Everything below that level is non-fatal: unreadable entries,
// binary files, and malformed functions become catalog diagnostics,
// so one bad script never hides the others. Entries are visited in
// sorted order per directory, which makes discovery order, and with it
// resolver tie-breaking, reproducible across runs.
func Build(roots []string, opts Options) (*Catalog, error) {
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := &builder{
		ignore:  make(map[string]bool, len(opts.Ignore)),
		logger:  opts.Logger,
		visited: make(map[string]bool),
		catalog: &Catalog{},
	}
	for _, name := range opts.Ignore {
		b.ignore[name] = true
	}

	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, &InvalidRootError{Root: root}
		}
		info, err := os.Stat(absRoot)
		if err != nil || !info.IsDir() {
			return nil, &InvalidRootError{Root: root}
		}
		b.walkDir(absRoot)
	}

	b.recordCollisions()
	return b.catalog, nil
}

// walkDir recursively visits one directory. Symbolic links are
// resolved, and each directory's canonical identity is tracked so link
// cycles terminate instead of recursing forever.
func (b *builder) walkDir(dir string) {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		b.diag(script.Diagnostic{
			Severity: script.SeverityError,
			Kind:     script.DiagUnreadable,
			Message:  "cannot resolve directory",
			Path:     dir,
			Cause:    err,
		})
		return
	}
	if b.visited[canonical] {
		b.logger.Debug("skipping already visited directory", "dir", dir)
		return
	}
	b.visited[canonical] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		b.diag(script.Diagnostic{
			Severity: script.SeverityError,
			Kind:     script.DiagUnreadable,
			Message:  "cannot read directory",
			Path:     dir,
			Cause:    err,
		})
		return
	}

	// os.ReadDir sorts by name, keeping discovery order deterministic.
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				b.diag(script.Diagnostic{
					Severity: script.SeverityWarning,
					Kind:     script.DiagUnreadable,
					Message:  "broken symbolic link",
					Path:     path,
					Cause:    err,
				})
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if b.ignore[entry.Name()] {
				b.logger.Debug("ignoring directory", "dir", path)
				continue
			}
			b.walkDir(path)
			continue
		}

		b.visitFile(path)
	}
}

// visitFile applies the eligibility filter and runs the extractor on
// one candidate file.
func (b *builder) visitFile(path string) {
	ok, reason, err := script.Eligible(path)
	if !ok {
		b.recordSkip(path, reason, err)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		b.diag(script.Diagnostic{
			Severity: script.SeverityError,
			Kind:     script.DiagUnreadable,
			Message:  "cannot read file",
			Path:     path,
			Cause:    err,
		})
		return
	}

	result := script.Parse(path, string(data))
	b.catalog.Diagnostics = append(b.catalog.Diagnostics, result.Diagnostics...)

	file := &script.ScriptFile{
		Path:        path,
		Name:        script.DisplayName(filepath.Base(path)),
		Description: result.Description,
		Functions:   result.Functions,
	}
	for _, fn := range file.Functions {
		fn.File = file
	}
	b.catalog.Scripts = append(b.catalog.Scripts, file)
	b.logger.Debug("catalogued script", "path", path, "functions", len(file.Functions))
}

// recordSkip turns an eligibility verdict into a diagnostic. Binary
// and empty skips are routine; unreadable files are reported louder.
func (b *builder) recordSkip(path string, reason script.SkipReason, err error) {
	switch reason {
	case script.SkipBinary:
		b.diag(script.Diagnostic{
			Severity: script.SeverityWarning,
			Kind:     script.DiagBinarySkip,
			Message:  "skipped binary file",
			Path:     path,
		})
	case script.SkipEmpty:
		b.diag(script.Diagnostic{
			Severity: script.SeverityWarning,
			Kind:     script.DiagEmptySkip,
			Message:  "skipped empty file",
			Path:     path,
		})
	case script.SkipUnreadable:
		b.diag(script.Diagnostic{
			Severity: script.SeverityError,
			Kind:     script.DiagUnreadable,
			Message:  "cannot read file",
			Path:     path,
			Cause:    err,
		})
	}
}

// recordCollisions finds function names defined in more than one file.
// Both definitions stay selectable; the diagnostic exists so listings
// can flag the ambiguity instead of silently shadowing one.
func (b *builder) recordCollisions() {
	byName := make(map[string][]*script.Function)
	for _, fn := range b.catalog.Functions() {
		byName[fn.Name] = append(byName[fn.Name], fn)
	}

	names := make([]string, 0, len(byName))
	for name, fns := range byName {
		if len(fns) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fns := byName[name]
		files := make([]string, 0, len(fns))
		for _, fn := range fns {
			files = append(files, fn.File.Name)
		}
		b.diag(script.Diagnostic{
			Severity: script.SeverityWarning,
			Kind:     script.DiagNameCollision,
			Message:  "function '" + name + "' is defined in multiple scripts: " + strings.Join(files, ", "),
			Function: name,
		})
	}
}

func (b *builder) diag(d script.Diagnostic) {
	b.catalog.Diagnostics = append(b.catalog.Diagnostics, d)
	b.logger.Debug("diagnostic", "kind", d.Kind, "path", d.Path, "msg", d.Message)
}
