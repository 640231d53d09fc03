package main

import (
	"fmt"
	"net/netip"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLookupCmd())
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <routes> <addr>...",
		Short: "Find the longest matching route of addresses",
		Long: `The lookup command prints the most specific route containing each
address, or "-" when no route matches.

Example:
  lpmctl lookup routes.txt 10.1.2.3 2001:db8::1
  lpmctl lookup routes.txt 10.1.2.3 --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args)
		},
	}
	return cmd
}

type lookupResult struct {
	Address string `json:"address"`
	Found   bool   `json:"found"`
	Prefix  string `json:"prefix,omitempty"`
	Value   uint32 `json:"value"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	addrs := make([]netip.Addr, 0, len(args)-1)
	for _, arg := range args[1:] {
		addr, err := netip.ParseAddr(arg)
		if err != nil {
			return fmt.Errorf("bad address: %w", err)
		}
		addrs = append(addrs, addr)
	}

	tbl, err := loadTable(args[0])
	if err != nil {
		return err
	}

	results := make([]lookupResult, 0, len(addrs))
	for _, addr := range addrs {
		res := lookupResult{Address: addr.String()}

		if route, ok := tbl.LongestMatch(addr); ok {
			res.Found = true
			res.Prefix = route.Prefix.String()
			res.Value = route.Value
		}

		results = append(results, res)
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), results)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, res := range results {
		if res.Found {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", res.Address, res.Prefix, res.Value)
		} else {
			fmt.Fprintf(tw, "%s\t-\t\n", res.Address)
		}
	}

	return tw.Flush()
}
