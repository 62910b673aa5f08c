package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title AquaFlow Pro API
// @version 1.0
// @description API for a swim team: training plans, athletes, check-ins, results and feedback.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           "aquaflow",
		Short:         "Swim team training planner and progress tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")

	root.AddCommand(newServeCmd(&configDir))
	root.AddCommand(newSeedCmd(&configDir))
	return root
}

func newServeCmd(configDir *string) *cobra.Command {
	var seedPath string
	var seedDefault bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer app.Close()

			if seedDefault || seedPath != "" {
				if err := app.Seed(cmd.Context(), seedPath); err != nil {
					return err
				}
			}
			return app.Serve()
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed-file", "", "seed the store from this fixture before serving")
	cmd.Flags().BoolVar(&seedDefault, "seed", false, "seed the store with the built-in demo team before serving")
	return cmd
}

func newSeedCmd(configDir *string) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a fixture of swimmers and plans into the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Seed(cmd.Context(), seedPath)
		},
	}
	cmd.Flags().StringVar(&seedPath, "file", "", "fixture path; the built-in demo team when empty")
	return cmd
}
