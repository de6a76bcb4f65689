package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/lexcodex/bonebudget/server"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP estimation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer env.Close()
			api := &server.APIServer{
				Estimator:       env.estimator,
				Thresholds:      env.thresholds,
				DefaultPlatform: env.cfg.Platform,
				Logger:          env.logger,
			}
			store, err := env.store()
			if err != nil {
				return err
			}
			if store != nil {
				api.Store = store
			}
			err = api.ServeContext(cmd.Context(), addr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", envOrDefault("BONEBUDGET_ADDR", ":8080"), "address for HTTP API server")
	return cmd
}
