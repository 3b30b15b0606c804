// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"shelf-cli/internal/config"
	"shelf-cli/internal/discovery"
	"shelf-cli/internal/issue"
	"shelf-cli/internal/runtime"
	"shelf-cli/internal/script"
)

// buildCatalog assembles the function catalog for this invocation.
// An explicit root list (from --root) overrides the configured roots.
func buildCatalog(roots []string) (*discovery.Catalog, error) {
	cfg := config.Get()
	if len(roots) == 0 {
		roots = cfg.Roots
	}

	ignore := discovery.DefaultIgnore
	if len(cfg.Ignore) > 0 {
		ignore = cfg.Ignore
	}

	return discovery.Build(roots, discovery.Options{
		Ignore: ignore,
		Logger: log.Default(),
	})
}

// reportDiagnostics prints catalog findings to stderr. Name collisions
// and errors are always shown; routine skips (binary files, empty
// files) only appear with --verbose, where the walk's debug logging
// already covers them.
func reportDiagnostics(catalog *discovery.Catalog) {
	for _, d := range catalog.Diagnostics {
		switch {
		case d.Severity == script.SeverityError:
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+d.String())
		case d.Kind == script.DiagNameCollision || d.Kind == script.DiagInvalidName || d.Kind == script.DiagMalformedFunction:
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+d.String())
		case verbose:
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+d.String())
		}
	}
}

// printCatalog writes a plain listing of every script and function,
// used by 'shelf list' and by the bare invocation without a terminal.
func printCatalog(w io.Writer, catalog *discovery.Catalog, includeHidden bool) {
	width := 0
	for _, fn := range catalog.Visible(includeHidden) {
		if len(fn.Name) > width {
			width = len(fn.Name)
		}
	}

	first := true
	for _, s := range catalog.Scripts {
		shown := visibleIn(s, includeHidden)
		if len(shown) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		header := TitleStyle.Render(s.Name) + "  " + PathStyle.Render(s.Path)
		fmt.Fprintln(w, header)
		if s.Description != "" {
			fmt.Fprintln(w, "  "+DescStyle.Render(s.Description))
		}
		for _, fn := range shown {
			line := "  " + FuncStyle.Render(fmt.Sprintf("%-*s", width, fn.Name))
			if fn.Description != "" {
				line += "  " + DescStyle.Render(fn.Description)
			}
			fmt.Fprintln(w, line)
		}
	}

	if first {
		fmt.Fprintln(w, SubtitleStyle.Render("No functions found."))
	}
}

// visibleIn filters one script's functions by the hidden flag.
func visibleIn(s *script.ScriptFile, includeHidden bool) []*script.Function {
	if includeHidden {
		return s.Functions
	}
	shown := make([]*script.Function, 0, len(s.Functions))
	for _, fn := range s.Functions {
		if !fn.Hidden {
			shown = append(shown, fn)
		}
	}
	return shown
}

// renderFatal prints a styled error message and converts the error
// into a silent non-zero exit, so the framework does not print it a
// second time or follow it with usage help.
func renderFatal(cmd *cobra.Command, err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1}
}

// silentExit suppresses cobra's error echo for exits whose message has
// already been written (or that need none, like a forwarded exit code).
func silentExit(cmd *cobra.Command, code runtime.ExitCode) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code}
}

// formatErrorForDisplay renders an error for the terminal. Actionable
// errors carry suggestions and, in verbose mode, the full cause chain;
// anything else falls back to its plain message.
func formatErrorForDisplay(err error, verbose bool) string {
	var actionable *issue.ActionableError
	if errors.As(err, &actionable) {
		return actionable.Format(verbose)
	}
	return err.Error()
}
