package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <routes>",
		Short: "Show table statistics",
		Long: `The stats command loads a routes file and shows the number of routes
per address family and the arena slots the table holds.

Example:
  lpmctl stats routes.txt
  lpmctl stats routes.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args)
		},
	}
	return cmd
}

type tableStats struct {
	Routes      int `json:"routes"`
	IPv4        int `json:"ipv4"`
	IPv6        int `json:"ipv6"`
	NodeSlots   int `json:"node_slots"`
	ResultSlots int `json:"result_slots"`
}

func runStats(cmd *cobra.Command, args []string) error {
	tbl, err := loadTable(args[0])
	if err != nil {
		return err
	}

	var stats tableStats

	for _, route := range tbl.Routes() {
		if route.Prefix.Addr().Is4() {
			stats.IPv4++
		} else {
			stats.IPv6++
		}
	}

	stats.Routes = tbl.Len()
	stats.NodeSlots, stats.ResultSlots = tbl.Memory()

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Routes:       %d\n", stats.Routes)
	fmt.Fprintf(w, "  IPv4:       %d\n", stats.IPv4)
	fmt.Fprintf(w, "  IPv6:       %d\n", stats.IPv6)
	fmt.Fprintf(w, "Node slots:   %d\n", stats.NodeSlots)
	fmt.Fprintf(w, "Result slots: %d\n", stats.ResultSlots)

	return nil
}
