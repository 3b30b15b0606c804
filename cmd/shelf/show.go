// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"shelf-cli/internal/script"
)

var (
	showRoots []string

	showCmd = &cobra.Command{
		Use:   "show <script>",
		Short: "Show one script's functions and documentation",
		Long: `Render the documentation of a single discovered script: its header
comment, its functions with their doc comments, and where each one is
defined. The script is addressed by display name, the file name
without its shell extension (deploy.sh is shown as 'deploy').`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
)

func init() {
	showCmd.Flags().StringArrayVar(&showRoots, "root", nil, "search root (repeatable; overrides config)")
}

func runShow(cmd *cobra.Command, args []string) error {
	catalog, err := buildCatalog(showRoots)
	if err != nil {
		return renderFatal(cmd, err)
	}
	reportDiagnostics(catalog)

	file := catalog.Script(args[0])
	if file == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), WarningStyle.Render(fmt.Sprintf("No script named %q found.", args[0])))
		return silentExit(cmd, 1)
	}

	rendered, err := renderScriptDoc(file)
	if err != nil {
		return renderFatal(cmd, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// renderScriptDoc builds a markdown document for one script and
// renders it with glamour for terminal display.
func renderScriptDoc(file *script.ScriptFile) (string, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", file.Name)
	fmt.Fprintf(&md, "`%s`\n\n", file.Path)
	if file.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", file.Description)
	}

	if len(file.Functions) == 0 {
		md.WriteString("_No functions defined._\n")
	}
	for _, fn := range file.Functions {
		fmt.Fprintf(&md, "## %s\n\n", fn.Name)
		if fn.Description != "" {
			fmt.Fprintf(&md, "%s\n\n", fn.Description)
		}
		fmt.Fprintf(&md, "Defined at lines %d-%d.\n\n", fn.StartLine, fn.EndLine)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(md.String())
}
