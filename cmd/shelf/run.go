// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shelf-cli/internal/config"
	"shelf-cli/internal/match"
	"shelf-cli/internal/runtime"
	"shelf-cli/internal/script"
	"shelf-cli/internal/tui"
)

var (
	runRoots   []string
	runAll     bool
	runPick    bool
	runNumRows int

	runCmd = &cobra.Command{
		Use:   "run [query] [args...]",
		Short: "Find a function by fuzzy search and run it",
		Long: `Find a function by fuzzy query and execute it with the remaining
arguments. The query matches against function names, their doc
comments, and the owning file name.

A query equal to exactly one function name runs it immediately. An
ambiguous query opens the interactive picker on a terminal, or takes
the top-ranked match with --pick=false.

Arguments after the query are forwarded to the function verbatim:

  shelf run deploy staging --force

runs the matched function as 'deploy staging --force' would inside
its own script. The function's exit code becomes shelf's exit code.`,
		Args: cobra.ArbitraryArgs,
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().StringArrayVar(&runRoots, "root", nil, "search root (repeatable; overrides config)")
	runCmd.Flags().BoolVar(&runAll, "all", false, "include hidden functions (names starting with _)")
	runCmd.Flags().BoolVar(&runPick, "pick", true, "open the interactive picker for ambiguous queries")
	runCmd.Flags().IntVarP(&runNumRows, "number", "n", 0, "picker rows to show")
}

func runRun(cmd *cobra.Command, args []string) error {
	query := ""
	var fnArgs []string
	if len(args) > 0 {
		query = args[0]
		fnArgs = args[1:]
	}

	catalog, err := buildCatalog(runRoots)
	if err != nil {
		return renderFatal(cmd, err)
	}
	reportDiagnostics(catalog)

	candidates := catalog.Visible(runAll)
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("No functions found under the configured roots."))
		return nil
	}

	// An empty query is browse mode. Without a picker there is nothing
	// to browse with, so list the catalog rather than implicitly running
	// whichever function sorts first.
	if query == "" && !pickerAvailable() {
		printCatalog(cmd.OutOrStdout(), catalog, runAll)
		return nil
	}

	fn, err := resolveFunction(candidates, query)
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		return renderFatal(cmd, err)
	}
	if fn == nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render(fmt.Sprintf("No function matches %q.", query)))
		return silentExit(cmd, 1)
	}

	return executeFunction(cmd, fn, fnArgs)
}

// runBrowse is the bare 'shelf' invocation: the full catalog in the
// picker, or a plain listing when not attached to a terminal.
func runBrowse(cmd *cobra.Command) error {
	catalog, err := buildCatalog(nil)
	if err != nil {
		return renderFatal(cmd, err)
	}
	reportDiagnostics(catalog)

	candidates := catalog.Visible(false)
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("No functions found under the configured roots."))
		return nil
	}

	if !tui.IsInteractive() {
		printCatalog(cmd.OutOrStdout(), catalog, false)
		return nil
	}

	fn, err := tui.Pick(tui.PickerOptions{
		Title:     "Run a function",
		Functions: candidates,
		Height:    runNumRows,
	})
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			return nil
		}
		return renderFatal(cmd, err)
	}
	return executeFunction(cmd, fn, nil)
}

// pickerAvailable reports whether an interactive picker session can
// open for this invocation: picking is enabled by flag and config, and
// the process is attached to a terminal.
func pickerAvailable() bool {
	return runPick && config.Get().UI.Interactive && tui.IsInteractive()
}

// resolveFunction narrows the candidate corpus to a single function.
// A non-empty query with a unique exact name match short-circuits;
// otherwise the ranked list feeds the picker, or its top entry when
// picking is disabled or impossible. An empty query never selects
// implicitly: it always goes through the picker (callers handle the
// no-picker case before resolving). A nil function with nil error
// means the query matched nothing.
func resolveFunction(candidates []*script.Function, query string) (*script.Function, error) {
	ranked := match.Rank(candidates, query)
	if len(ranked) == 0 {
		return nil, nil
	}

	if query != "" {
		exact := match.ExactMatches(ranked)
		if len(exact) == 1 {
			return exact[0].Function, nil
		}
		if !pickerAvailable() || len(ranked) == 1 {
			return ranked[0].Function, nil
		}
	}

	return tui.Pick(tui.PickerOptions{
		Title:        "Run a function",
		InitialQuery: query,
		Functions:    candidates,
		Height:       runNumRows,
	})
}

// executeFunction hands the resolved function to the execution bridge
// and converts the outcome into the process exit code.
func executeFunction(cmd *cobra.Command, fn *script.Function, args []string) error {
	cfg := config.Get()

	fmt.Fprintln(os.Stderr, SubtitleStyle.Render("shelf: ")+
		PathStyle.Render(fn.File.Path)+
		SubtitleStyle.Render(" -> ")+
		FuncStyle.Render(fn.Name))

	bridge := &runtime.Bridge{
		Shell:   cfg.Shell,
		TempDir: cfg.TempDir,
	}
	result := bridge.Execute(&runtime.ExecutionContext{
		Context:  context.Background(),
		Function: fn,
		Args:     args,
	})

	if result.Error != nil {
		return renderFatal(cmd, result.Error)
	}
	if !result.ExitCode.IsSuccess() {
		// The function's own exit status, forwarded without comment.
		return silentExit(cmd, result.ExitCode)
	}
	return nil
}
