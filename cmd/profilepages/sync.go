package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <template-id>",
	Short: "Push a template's content to every page generated from it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid template id %q: %w", args[0], err)
		}

		a, err := newApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		if _, err := a.templates.FindByID(ctx, id); err != nil {
			return fmt.Errorf("template %s: %w", id, err)
		}

		res, err := a.syncer.SyncTemplate(ctx, id)
		if err != nil {
			return err
		}
		if a.pageCache != nil {
			a.pageCache.InvalidateAll(ctx)
		}
		return json.NewEncoder(os.Stdout).Encode(res)
	},
}
