package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/bridge"
)

var (
	flagSearchLimit int
	flagFull        bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Browse the functions a script can call",
}

var bridgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every script function",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := bridge.NewCatalog()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FUNCTION\tDESCRIPTION")
		for _, fn := range catalog.Functions() {
			fmt.Fprintf(tw, "%s\t%s\n", fn.Signature, fn.Description)
		}
		return tw.Flush()
	},
}

var bridgeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search script functions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := bridge.NewCatalog()
		if err != nil {
			return err
		}
		results, err := catalog.Search(strings.Join(args, " "), flagSearchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", r.Name, r.ShortDescription)
		}
		return nil
	},
}

var bridgeDescribeCmd = &cobra.Command{
	Use:   "describe <function>",
	Short: "Show the documentation of one function",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := bridge.NewCatalog()
		if err != nil {
			return err
		}
		detail := tooldoc.DetailSummary
		if flagFull {
			detail = tooldoc.DetailFull
		}
		doc, err := catalog.Describe(args[0], detail)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, doc.Summary)
		if flagFull && doc.Notes != "" {
			fmt.Fprintf(out, "\n%s\n", doc.Notes)
		}
		if flagFull {
			examples, err := catalog.Examples(args[0], 3)
			if err != nil {
				return err
			}
			for _, ex := range examples {
				fmt.Fprintf(out, "\nExample:\n  %s\n", ex.Description)
			}
		}
		return nil
	},
}

func init() {
	bridgeSearchCmd.Flags().IntVar(&flagSearchLimit, "limit", 10, "Maximum results")
	bridgeDescribeCmd.Flags().BoolVar(&flagFull, "full", false, "Include notes and examples")

	bridgeCmd.AddCommand(bridgeListCmd)
	bridgeCmd.AddCommand(bridgeSearchCmd)
	bridgeCmd.AddCommand(bridgeDescribeCmd)
}
