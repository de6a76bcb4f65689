package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/app/tui"
	"github.com/lexcodex/bonebudget/framework"
)

func newThresholdsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "thresholds [PLATFORM]",
		Short: "Show the rating thresholds for one or all platforms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			tables := env.thresholds.Tables()
			if len(args) == 1 {
				table, err := env.thresholds.Get(args[0])
				if err != nil {
					return err
				}
				tables = []framework.ThresholdTable{table}
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tables)
			}
			for _, table := range tables {
				fmt.Fprintln(out, tui.RenderThresholds(table))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tables as JSON")
	return cmd
}
