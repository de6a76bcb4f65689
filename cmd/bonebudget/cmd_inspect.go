package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/app/tui"
	"github.com/lexcodex/bonebudget/persistence"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Browse the per-chain breakdown of a scene interactively",
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
			est, err := env.estimator.Estimate(req)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), doc.Name, est, env.thresholds, env.cfg.Platform)
		},
	}
}
