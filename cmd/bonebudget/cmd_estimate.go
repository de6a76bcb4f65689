package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/app/tui"
	"github.com/lexcodex/bonebudget/framework"
	"github.com/lexcodex/bonebudget/persistence"
)

// errBudgetExceeded is returned when --fail-on trips.
var errBudgetExceeded = errors.New("performance budget exceeded")

func newEstimateCmd() *cobra.Command {
	var asJSON, save, prune bool
	var failOn string
	cmd := &cobra.Command{
		Use:   "estimate FILE",
		Short: "Estimate one scene document and rate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			doc, err := persistence.LoadSceneDocument(args[0])
			if err != nil {
				return err
			}
			req, err := doc.Build()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if prune {
				cleared := framework.PruneColliders(req)
				env.logger.Info("pruned collider references", "scene", doc.Name, "cleared", cleared)
			}
			est, err := env.estimator.Estimate(req)
			if err != nil {
				return err
			}
			report := persistence.NewReport(doc.Name, env.table(), est)

			if save {
				store, err := env.store()
				if err != nil {
					return err
				}
				if store == nil {
					return errors.New("report store disabled in workspace config")
				}
				if err := store.Save(cmd.Context(), report); err != nil {
					return err
				}
				env.logger.Info("report saved", "id", report.ID)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, tui.RenderEstimation(report))
				fmt.Fprintln(out, tui.RenderChains(est.Chains))
			}
			return checkBudget(report, failOn)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Save the report to the workspace store")
	cmd.Flags().BoolVar(&prune, "prune-colliders", false, "Detach collider references that are unlisted or stripped before estimating")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "Exit non-zero when the overall rating is at or worse than this rating")
	return cmd
}

func checkBudget(report *persistence.Report, failOn string) error {
	if failOn == "" {
		return nil
	}
	var limit framework.Rating
	if err := limit.UnmarshalText([]byte(failOn)); err != nil {
		return err
	}
	if report.Overall >= limit {
		return fmt.Errorf("%w: %s rated %s on %s", errBudgetExceeded, report.Scene, report.Overall, report.Platform)
	}
	return nil
}
