// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	listRoots []string
	listAll   bool

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List every discovered script and function",
		Long: `Walk the configured search roots and print each discovered script
with its functions and doc comments, in stable discovery order.

Hidden functions (names starting with _) are omitted unless --all is
given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := buildCatalog(listRoots)
			if err != nil {
				return renderFatal(cmd, err)
			}
			reportDiagnostics(catalog)
			printCatalog(cmd.OutOrStdout(), catalog, listAll)
			return nil
		},
	}
)

func init() {
	listCmd.Flags().StringArrayVar(&listRoots, "root", nil, "search root (repeatable; overrides config)")
	listCmd.Flags().BoolVar(&listAll, "all", false, "include hidden functions (names starting with _)")
}
