package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <routes>",
		Short: "Print the normalized routes of a table",
		Long: `The dump command loads a routes file and prints every route in trie
order with host bits cleared and duplicates resolved (last one wins).

Example:
  lpmctl dump routes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args)
		},
	}
	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	tbl, err := loadTable(args[0])
	if err != nil {
		return err
	}

	routes := tbl.Routes()

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), routes)
	}

	for _, route := range routes {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", route.Prefix, route.Value)
	}

	return nil
}
