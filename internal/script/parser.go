// SPDX-License-Identifier: MPL-2.0

package script

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// parserState enumerates the scanner states. Here-doc bodies are
// scanned as opaque text so stray braces inside them are never taken
// as structural braces.
type parserState int

const (
	// stateScanning is the default state: outside any function body,
	// accumulating comment runs and looking for declarations.
	stateScanning parserState = iota
	// stateAwaitBrace follows a declaration whose opening brace was not
	// on the same line; only the next line may open the body.
	stateAwaitBrace
	// stateBody tracks brace depth inside a function body.
	stateBody
	// stateHereDoc consumes opaque here-doc text until the pending
	// delimiters are matched, then returns to stateBody or stateScanning.
	stateHereDoc
)

// ParseResult is the outcome of extracting one script's functions.
// A script with zero recognizable functions is valid: Functions is
// empty and Diagnostics explains anything that was excluded.
type ParseResult struct {
	// Description is the file-level doc header, if any.
	Description string
	// Functions are the extracted functions in source order.
	Functions []*Function
	// Diagnostics lists non-fatal parse findings (malformed bodies,
	// invalid names). Parsing never hard-fails.
	Diagnostics []Diagnostic
}

// declPattern recognises the three bash declaration forms:
//
//	name() {        function name {        function name() {
//
// with arbitrary surrounding whitespace. The trailing capture holds
// whatever follows the signature; it must be empty (brace on the next
// line) or begin the body with "{".
var declPattern = regexp.MustCompile(`^(?:function\s+([^\s(){}]+)\s*(?:\(\s*\))?|([^\s(){}]+)\s*\(\s*\))\s*(.*)$`)

// hereDocPattern matches a here-doc operator and its delimiter word.
// "<<<" here-strings are excluded. The delimiter may be quoted; quoting
// only affects expansion, not where the region ends.
var hereDocPattern = regexp.MustCompile(`(^|[^<])<<(-?)\s*(?:'([^']+)'|"([^"]+)"|\\?([^\s<>&|;()]+))`)

// parser holds the scanner state for one file.
type parser struct {
	path  string
	state parserState

	// comments is the contiguous comment run being accumulated; a blank
	// line or any code line breaks it.
	comments []string

	// current is the declaration being scanned, nil outside a function.
	current *Function
	// discard drops the current function at emit time (invalid name);
	// its body is still consumed so the rest of the file parses cleanly.
	discard bool
	depth   int

	// hereDocs are the pending delimiters, in order of appearance.
	hereDocs []hereDocMarker
	// afterHereDocs restores the state once the last delimiter matches.
	afterHereDocs parserState

	fileDesc  string
	sawHeader bool

	result ParseResult
}

type hereDocMarker struct {
	delimiter string
	// stripTabs is set for <<- operators, which allow leading tabs
	// before the closing delimiter.
	stripTabs bool
}

// Parse extracts the functions and file-level description from the
// full text of one script. It never fails: anything unparseable is
// reported through ParseResult.Diagnostics.
func Parse(path, src string) *ParseResult {
	p := &parser{path: path, state: stateScanning}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		p.scanLine(i+1, line)
	}
	p.finish(len(lines))

	p.result.Description = p.fileDesc
	return &p.result
}

func (p *parser) scanLine(lineNo int, line string) {
	switch p.state {
	case stateHereDoc:
		p.scanHereDocLine(line)
	case stateBody:
		p.scanBodyLine(lineNo, line)
	case stateAwaitBrace:
		p.scanAwaitBraceLine(lineNo, line)
	default:
		p.scanTopLine(lineNo, line)
	}
}

// scanTopLine handles lines outside any function body.
func (p *parser) scanTopLine(lineNo int, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		// A blank line terminates the comment run; a run not attached to
		// a declaration before the first function is the file header.
		p.flushComments()
	case strings.HasPrefix(trimmed, "#!") && lineNo == 1:
		// Shebang line, never part of a description.
	case strings.HasPrefix(trimmed, "#"):
		p.comments = append(p.comments, cleanCommentLine(trimmed))
	default:
		if m := declPattern.FindStringSubmatch(trimmed); m != nil {
			p.startFunction(lineNo, m)
			return
		}
		// Arbitrary top-level code. It may open a here-doc whose body
		// must stay opaque to declaration scanning.
		p.comments = nil
		rest := stripComment(line)
		if p.collectHereDocs(rest) {
			p.afterHereDocs = stateScanning
			p.state = stateHereDoc
		}
	}
}

// startFunction begins tracking a declaration matched by declPattern.
func (p *parser) startFunction(lineNo int, m []string) {
	name := m[1]
	if name == "" {
		name = m[2]
	}
	rest := m[3]

	fn := &Function{
		Name:        name,
		Description: joinComments(p.comments),
		StartLine:   lineNo,
		Hidden:      strings.HasPrefix(name, "_"),
	}
	p.comments = nil
	p.current = fn
	// Names failing shell identifier rules are excluded, but the body is
	// still consumed so the rest of the file parses cleanly. The
	// diagnostic is deferred to body completion: a pattern like
	// "arr=()" can match the signature shape without ever opening a body.
	p.discard = !syntax.ValidName(name)

	if rest == "" {
		p.state = stateAwaitBrace
		return
	}
	if !strings.HasPrefix(rest, "{") {
		// Not a function after all (e.g. a call that happened to look
		// like a signature). Drop the candidate and stay at top level.
		p.current = nil
		p.state = stateScanning
		return
	}
	p.depth = 0
	p.state = stateBody
	p.scanBodyLine(lineNo, rest)
}

// scanAwaitBraceLine expects the opening brace on the line directly
// after the signature. Anything else demotes the candidate.
func (p *parser) scanAwaitBraceLine(lineNo int, line string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		p.current = nil
		p.state = stateScanning
		p.scanTopLine(lineNo, line)
		return
	}
	p.depth = 0
	p.state = stateBody
	p.scanBodyLine(lineNo, trimmed)
}

// scanBodyLine tracks brace depth through a function body. Comments
// are stripped first and here-docs switch the scanner to opaque mode,
// so only structural braces are counted.
func (p *parser) scanBodyLine(lineNo int, line string) {
	effective := stripComment(line)
	opened := p.collectHereDocs(effective)

	for _, r := range effective {
		switch r {
		case '{':
			p.depth++
		case '}':
			p.depth--
			if p.depth == 0 {
				p.endFunction(lineNo)
				// A here-doc opened on the closing line still owns the
				// following lines; its delimiter must be consumed before
				// top-level scanning resumes, or it would shadow the next
				// function's delimiters.
				if len(p.hereDocs) > 0 {
					p.afterHereDocs = stateScanning
					p.state = stateHereDoc
				}
				return
			}
		}
	}

	if opened {
		p.afterHereDocs = stateBody
		p.state = stateHereDoc
	}
}

// scanHereDocLine consumes opaque here-doc text until every pending
// delimiter has been matched in order.
func (p *parser) scanHereDocLine(line string) {
	if len(p.hereDocs) == 0 {
		p.state = p.afterHereDocs
		return
	}
	marker := p.hereDocs[0]
	candidate := line
	if marker.stripTabs {
		candidate = strings.TrimLeft(candidate, "\t")
	}
	if strings.TrimRight(candidate, " \t") == marker.delimiter {
		p.hereDocs = p.hereDocs[1:]
		if len(p.hereDocs) == 0 {
			p.state = p.afterHereDocs
		}
	}
}

// collectHereDocs records every here-doc operator on the line and
// reports whether any were found.
func (p *parser) collectHereDocs(line string) bool {
	matches := hereDocPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return false
	}
	for _, m := range matches {
		delim := m[3]
		if delim == "" {
			delim = m[4]
		}
		if delim == "" {
			delim = m[5]
		}
		p.hereDocs = append(p.hereDocs, hereDocMarker{
			delimiter: delim,
			stripTabs: m[2] == "-",
		})
	}
	return true
}

func (p *parser) endFunction(lineNo int) {
	fn := p.current
	p.current = nil
	p.state = stateScanning
	if fn == nil {
		return
	}
	if p.discard {
		p.result.Diagnostics = append(p.result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Kind:     DiagInvalidName,
			Message:  "'" + fn.Name + "' is not a valid shell identifier",
			Path:     p.path,
			Function: fn.Name,
			Line:     fn.StartLine,
		})
		return
	}
	fn.EndLine = lineNo
	// A repeated definition resolves to the later one when the file is
	// sourced, so the catalog keeps the later entry; this also keeps
	// (file, name) unique.
	for i, existing := range p.result.Functions {
		if existing.Name == fn.Name {
			p.result.Diagnostics = append(p.result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Kind:     DiagNameCollision,
				Message:  "function '" + fn.Name + "' is defined more than once; the last definition is used",
				Path:     p.path,
				Function: fn.Name,
				Line:     fn.StartLine,
			})
			p.result.Functions[i] = fn
			return
		}
	}
	p.result.Functions = append(p.result.Functions, fn)
}

// finish closes out end-of-file conditions: an unterminated body is a
// malformed-function diagnostic, and a trailing comment block becomes
// the file description when the file declared no functions.
func (p *parser) finish(lastLine int) {
	if p.current != nil {
		p.result.Diagnostics = append(p.result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Kind:     DiagMalformedFunction,
			Message:  "function '" + p.current.Name + "' has no matching closing brace",
			Path:     p.path,
			Function: p.current.Name,
			Line:     p.current.StartLine,
		})
		p.current = nil
	}
	if len(p.result.Functions) == 0 {
		p.flushComments()
	}
}

// flushComments resolves a terminated comment run: the first run that
// is not attached to a declaration, seen before any function, is the
// file-level description.
func (p *parser) flushComments() {
	if len(p.comments) == 0 {
		return
	}
	if !p.sawHeader && len(p.result.Functions) == 0 && p.fileDesc == "" {
		p.fileDesc = joinComments(p.comments)
		p.sawHeader = true
	}
	p.comments = nil
}

// cleanCommentLine strips the comment-marker prefix and exactly one
// following space.
func cleanCommentLine(line string) string {
	cleaned := strings.TrimLeft(line, "#")
	cleaned = strings.TrimPrefix(cleaned, " ")
	return cleaned
}

// joinComments joins a comment run into a single space-separated
// description, skipping empty lines. An empty run yields "".
func joinComments(run []string) string {
	parts := make([]string, 0, len(run))
	for _, c := range run {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// stripComment removes a trailing comment from a code line. A '#'
// starts a comment at line start or after whitespace; this does not
// model quoting, which is close enough for brace accounting.
func stripComment(line string) string {
	for i, r := range line {
		if r != '#' {
			continue
		}
		if i == 0 {
			return ""
		}
		prev := line[i-1]
		if prev == ' ' || prev == '\t' {
			return line[:i]
		}
	}
	return line
}
