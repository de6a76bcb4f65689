package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/app/tui"
	"github.com/lexcodex/bonebudget/cmd/internal/cliutils"
	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

func newBatchCmd() *cobra.Command {
	var parallel int
	var asJSON, save bool
	var failOn string
	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Estimate several scene documents concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			if !cmd.Flags().Changed("parallel") {
				parallel = env.cfg.Parallel
			}

			scenes, err := cliutils.LoadScenes(cmd.Context(), args, parallel)
			if err != nil {
				return err
			}
			reqs := make([]framework.EstimateRequest, len(scenes))
			for i, s := range scenes {
				reqs[i] = s.Request
			}
			results, err := env.estimator.EstimateBatch(cmd.Context(), reqs, parallel)
			if err != nil {
				return err
			}

			var store persistence.ReportStore
			if save {
				if store, err = env.store(); err != nil {
					return err
				}
				if store == nil {
					return errors.New("report store disabled in workspace config")
				}
			}
			reports := make([]persistence.Report, 0, len(results))
			var budgetErr error
			for i, est := range results {
				report := persistence.NewReport(scenes[i].Document.Name, env.table(), est)
				if store != nil {
					if err := store.Save(cmd.Context(), report); err != nil {
						return err
					}
				}
				if err := checkBudget(report, failOn); err != nil && budgetErr == nil {
					budgetErr = err
				}
				reports = append(reports, *report)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, tui.RenderReportList(reports))
			}
			return budgetErr
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Maximum concurrent estimations (0 uses the workspace config, then GOMAXPROCS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the reports as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Save every report to the workspace store")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero when any overall rating is at or worse than this rating")
	return cmd
}
