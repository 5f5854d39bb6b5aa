package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Generate pages for every profile that has none",
	Long: `reconcile clears all generation markers, walks every profile and runs
the page generator for profiles without any page. Existing pages are never
touched. The counts are printed as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		res, err := a.reconciler.RegenerateMissing(ctx)
		if encErr := json.NewEncoder(os.Stdout).Encode(res); encErr != nil && err == nil {
			err = encErr
		}
		return err
	},
}
