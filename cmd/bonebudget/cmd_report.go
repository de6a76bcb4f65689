package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/app/tui"
	"github.com/lexcodex/bonebudget/persistence"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage saved estimation reports",
	}
	cmd.AddCommand(newReportListCmd(), newReportShowCmd(), newReportDeleteCmd())
	return cmd
}

func openReportStore(cmd *cobra.Command) (*runtimeEnv, persistence.ReportStore, error) {
	env, err := loadEnv(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := env.store()
	if err != nil {
		env.Close()
		return nil, nil, err
	}
	if store == nil {
		env.Close()
		return nil, nil, errors.New("report store disabled in workspace config")
	}
	return env, store, nil
}

func newReportListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, store, err := openReportStore(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			reports, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderReportList(reports))
			return nil
		},
	}
}

func newReportShowCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, store, err := openReportStore(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			report, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprintln(out, tui.RenderEstimation(report))
			if len(report.Chains) > 0 {
				fmt.Fprintln(out, tui.RenderChains(report.Chains))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func newReportDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, store, err := openReportStore(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			if _, err := store.Load(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
			return nil
		},
	}
}
