package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/cmd/internal/workspacecfg"
)

// newConfigCmd registers subcommands that inspect or mutate bonebudget.yaml.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or modify bonebudget.yaml",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Read a config value by dotted key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := workspacecfg.ReadMap(workspacecfg.ConfigPath(flagWorkspace))
			if err != nil {
				return err
			}
			value, ok := workspacecfg.GetValue(data, args[0])
			if !ok {
				return fmt.Errorf("key %s not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), workspacecfg.PrettyValue(value))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Update a config value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := workspacecfg.ConfigPath(flagWorkspace)
			data, err := workspacecfg.ReadMap(path)
			if err != nil {
				return err
			}
			if err := workspacecfg.SetValue(data, args[0], workspacecfg.ParseValue(args[1])); err != nil {
				return err
			}
			if err := workspacecfg.WriteMap(path, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			return nil
		},
	}
}
