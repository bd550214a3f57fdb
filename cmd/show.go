package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/bbh/internal/bbh"
	"github.com/zjrosen/bbh/internal/report"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Render a BBH table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := bbh.ReadTableFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.RenderTable(t, showLimit))
		return nil
	},
}

func init() {
	showCmd.Flags().IntVarP(&showLimit, "limit", "n", 0, "show at most N rows (0 for all)")
	rootCmd.AddCommand(showCmd)
}
