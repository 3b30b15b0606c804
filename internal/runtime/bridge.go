// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"shelf-cli/internal/issue"
	"shelf-cli/internal/script"
)

type (
	// ExecutionContext carries everything needed to run one resolved
	// function: the function, its positional arguments (forwarded
	// verbatim), and the directory the child should run in.
	ExecutionContext struct {
		// Context cancels the child process when done.
		Context context.Context
		// Function is the resolved function to invoke.
		Function *script.Function
		// Args are the trailing argument strings for the function.
		Args []string
		// WorkDir is the child's working directory. Empty means the
		// current directory, so the function behaves as if the user had
		// sourced the file and called it themselves.
		WorkDir string
	}

	// Bridge executes one function at a time through a transient
	// wrapper script. The wrapper is created immediately before the
	// spawn and removed on every path out of it.
	Bridge struct {
		// Shell is the interpreter for the wrapper. Empty means bash
		// from PATH.
		Shell string
		// TempDir overrides the wrapper location. Empty means the
		// platform temp directory.
		TempDir string
		// Logger receives debug and cleanup-failure reporting. Nil means
		// the package default logger.
		Logger *log.Logger

		// Stdin, Stdout, Stderr default to the process's own streams so
		// the child inherits the terminal.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Execute synchronously runs the function to completion and returns
// its exit status. Setup failures (wrapper write, interpreter missing)
// produce a Result with Error set; a nonzero exit from the function
// itself is the expected signal path and is forwarded verbatim.
func (b *Bridge) Execute(ctx *ExecutionContext) *Result {
	logger := b.Logger
	if logger == nil {
		logger = log.Default()
	}

	interpreter, err := b.resolveInterpreter()
	if err != nil {
		return NewErrorResult(1, issue.NewErrorContext().
			WithOperation("locate shell interpreter").
			WithSuggestion("Install bash or set 'shell' in the config file").
			Wrap(err).
			Build())
	}

	content, err := WrapperContent(interpreter, ctx.Function, ctx.Args)
	if err != nil {
		return NewErrorResult(1, issue.WrapWithOperation(err, "generate wrapper script"))
	}

	dir := b.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := wrapperPath(dir)

	if err := writeWrapper(path, content); err != nil {
		return NewErrorResult(1, issue.NewErrorContext().
			WithOperation("write wrapper script").
			WithResource(path).
			WithSuggestion("Check that the temp directory exists and is writable").
			Wrap(err).
			Build())
	}
	// The wrapper is removed on every exit path: spawn failure, child
	// crash, and interrupt included.
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("could not remove wrapper script", "path", path, "err", err)
		}
	}()

	logger.Debug("executing function",
		"function", ctx.Function.Name,
		"script", ctx.Function.File.Path,
		"wrapper", path)

	runCtx := ctx.Context
	if runCtx == nil {
		runCtx = context.Background()
	}

	cmd := exec.CommandContext(runCtx, path)
	cmd.Dir = ctx.WorkDir
	cmd.Stdin = b.Stdin
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return NewErrorResult(1, issue.NewErrorContext().
			WithOperation("spawn wrapper script").
			WithResource(path).
			WithSuggestion("Verify the shell interpreter exists and is executable").
			Wrap(err).
			Build())
	}

	// Forward interrupts to the child instead of dying: the child owns
	// the terminal until it exits, and the deferred cleanup above must
	// still run afterwards.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	waitDone := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-waitDone:
				return
			}
		}
	}()

	err = cmd.Wait()
	close(waitDone)

	return extractExitCode(err)
}

// resolveInterpreter picks the wrapper's shell. The configured shell
// wins; otherwise bash from PATH, since the catalog is built from bash
// sources.
func (b *Bridge) resolveInterpreter() (string, error) {
	if b.Shell != "" {
		return b.Shell, nil
	}
	return exec.LookPath("bash")
}

// extractExitCode maps a Wait error to the forwarded exit status. A
// child killed by a signal reports 128+signal, matching shell
// conventions.
func extractExitCode(err error) *Result {
	if err == nil {
		return NewExitCodeResult(0)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return NewExitCodeResult(ExitCode(code))
		}
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return NewExitCodeResult(ExitCode(128 + int(ws.Signal())))
		}
		return NewExitCodeResult(1)
	}

	return NewErrorResult(1, issue.WrapWithOperation(err, "wait for wrapper script"))
}
