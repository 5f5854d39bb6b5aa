package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"profilepages/internal/config"
)

var (
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "profilepages",
	Short: "Template-driven profile page generation and sync",
	Long: `profilepages materializes one page per profile from every published
template, keeps those pages in sync when a template is saved, and rejects
direct edits of generated pages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		cfg = loaded

		level := slog.LevelInfo
		if verbose || cfg.IsDev() {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)

		slog.Debug("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd, reconcileCmd, syncCmd)
}
