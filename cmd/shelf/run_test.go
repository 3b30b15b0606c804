// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"shelf-cli/internal/config"
	"shelf-cli/internal/discovery"
	"shelf-cli/internal/issue"
)

func testCatalog(t *testing.T) *discovery.Catalog {
	t.Helper()
	root := t.TempDir()
	src := `# Deployment helpers.

# Deploy to an environment
deploy() {
  true
}

# Deploy everything at once
deploy_all() {
  true
}

_secret() {
  true
}
`
	if err := os.WriteFile(filepath.Join(root, "deploy.sh"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog, err := discovery.Build([]string{root}, discovery.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestResolveFunction_ExactShortCircuit(t *testing.T) {
	config.Set(config.DefaultConfig())
	t.Cleanup(config.Reset)

	catalog := testCatalog(t)
	fn, err := resolveFunction(catalog.Visible(false), "deploy")
	if err != nil {
		t.Fatalf("resolveFunction() error = %v", err)
	}
	if fn == nil || fn.Name != "deploy" {
		t.Errorf("resolveFunction() = %+v, want the exact match 'deploy'", fn)
	}
}

func TestResolveFunction_NoMatch(t *testing.T) {
	config.Set(config.DefaultConfig())
	t.Cleanup(config.Reset)

	catalog := testCatalog(t)
	fn, err := resolveFunction(catalog.Visible(false), "zzzqqq")
	if err != nil {
		t.Fatalf("resolveFunction() error = %v", err)
	}
	if fn != nil {
		t.Errorf("resolveFunction() = %+v, want nil for no match", fn)
	}
}

func TestResolveFunction_TopCandidateWithoutTerminal(t *testing.T) {
	// Without a TTY the picker cannot open; the top-ranked candidate
	// is taken instead.
	config.Set(config.DefaultConfig())
	t.Cleanup(config.Reset)

	catalog := testCatalog(t)
	fn, err := resolveFunction(catalog.Visible(false), "depl")
	if err != nil {
		t.Fatalf("resolveFunction() error = %v", err)
	}
	if fn == nil || fn.Name != "deploy" {
		t.Errorf("resolveFunction() = %+v, want top-ranked 'deploy'", fn)
	}
}

func TestRunRun_EmptyQueryWithoutTerminalListsInstead(t *testing.T) {
	// 'shelf run' in a pipe has an empty query and no picker; it must
	// list the catalog, never execute whichever function sorts first.
	config.Set(config.DefaultConfig())
	t.Cleanup(config.Reset)

	root := t.TempDir()
	src := "# Helpers.\n\nalpha() {\n  echo a\n}\n\nbeta() {\n  echo b\n}\n"
	if err := os.WriteFile(filepath.Join(root, "lib.sh"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	prevRoots := runRoots
	runRoots = []string{root}
	t.Cleanup(func() { runRoots = prevRoots })

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun() with an empty query = %v, want a plain listing", err)
	}
	listing := out.String()
	if !strings.Contains(listing, "alpha") || !strings.Contains(listing, "beta") {
		t.Errorf("empty query without a terminal should list the catalog:\n%s", listing)
	}
}

func TestPrintCatalog(t *testing.T) {
	catalog := testCatalog(t)

	var out bytes.Buffer
	printCatalog(&out, catalog, false)
	listing := out.String()

	if !strings.Contains(listing, "deploy") || !strings.Contains(listing, "Deploy to an environment") {
		t.Errorf("listing missing functions or descriptions:\n%s", listing)
	}
	if strings.Contains(listing, "_secret") {
		t.Errorf("hidden function leaked into the default listing:\n%s", listing)
	}

	out.Reset()
	printCatalog(&out, catalog, true)
	if !strings.Contains(out.String(), "_secret") {
		t.Errorf("--all listing missing hidden function:\n%s", out.String())
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, false); got != "boom" {
		t.Errorf("plain error = %q, want %q", got, "boom")
	}

	actionable := issue.NewErrorContext().
		WithOperation("build catalog").
		WithSuggestion("Check the configured roots").
		Build()
	got := formatErrorForDisplay(actionable, false)
	if !strings.Contains(got, "Check the configured roots") {
		t.Errorf("actionable error lost its suggestions: %q", got)
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := &ExitError{Code: 1, Err: errors.New("inner")}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("Unwrap() should expose the inner error")
	}
}
