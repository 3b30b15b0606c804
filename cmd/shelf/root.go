// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for shelf.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"shelf-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "shelf",
		Short: "Browse and run the bash functions in your script collection",
		Long: TitleStyle.Render("shelf") + SubtitleStyle.Render(" - a fuzzy menu for your bash functions") + `

shelf indexes the bash functions defined in the scripts under your
configured search roots, together with the doc comments above them.
Find a function by fuzzy search and shelf runs it for you, in the
right file, with your arguments - no sourcing, no remembering paths.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Keep your scripts anywhere under a search root (default: .)
  2. Document functions with comment lines directly above them
  3. Run 'shelf' to browse, or 'shelf run <query> [args...]'

` + SubtitleStyle.Render("Examples:") + `
  shelf                     Browse all discovered functions
  shelf run dep staging     Fuzzy-match 'dep', run it with 'staging'
  shelf list                List every script and function
  shelf show deploy         Show one script's functions and docs
  shelf config init         Write a default config file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd)
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is the platform config dir)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). The child's exit code
// travels out of RunE handlers as an ExitError and becomes the tool's
// own exit code, so shell-level error handling composes normally.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in the config file and SHELF_* env variables.
func initRootConfig() {
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		cfg = config.DefaultConfig()
	}
	config.Set(cfg)

	if cfg.Verbose {
		verbose = true
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetOutput(os.Stderr)
}
