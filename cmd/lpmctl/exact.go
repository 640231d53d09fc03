package main

import (
	"fmt"
	"net/netip"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExactCmd())
}

func newExactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exact <routes> <prefix>...",
		Short: "Look up routes by exact prefix",
		Long: `The exact command prints the value stored under each prefix. A
covering shorter route does not count.

Example:
  lpmctl exact routes.txt 10.0.0.0/8 2001:db8::/32`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExact(cmd, args)
		},
	}
	return cmd
}

type exactResult struct {
	Prefix string `json:"prefix"`
	Found  bool   `json:"found"`
	Value  uint32 `json:"value"`
}

func runExact(cmd *cobra.Command, args []string) error {
	pfxs := make([]netip.Prefix, 0, len(args)-1)
	for _, arg := range args[1:] {
		pfx, err := netip.ParsePrefix(arg)
		if err != nil {
			return fmt.Errorf("bad prefix: %w", err)
		}
		pfxs = append(pfxs, pfx)
	}

	tbl, err := loadTable(args[0])
	if err != nil {
		return err
	}

	results := make([]exactResult, 0, len(pfxs))
	for _, pfx := range pfxs {
		val, ok, err := tbl.ExactMatch(pfx.Addr(), pfx.Bits())
		if err != nil {
			return err
		}

		results = append(results, exactResult{Prefix: pfx.Masked().String(), Found: ok, Value: val})
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), results)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, res := range results {
		if res.Found {
			fmt.Fprintf(tw, "%s\t%d\n", res.Prefix, res.Value)
		} else {
			fmt.Fprintf(tw, "%s\t-\n", res.Prefix)
		}
	}

	return tw.Flush()
}
