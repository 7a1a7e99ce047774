package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openbrew/brewlog/internal/config"
)

// appLoader builds the App lazily so commands that only print help never
// touch storage.
type appLoader func(ctx context.Context) (*App, error)

// RootCmd assembles the brewlog command tree.
func RootCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		apiURL     string
	)

	cmd := &cobra.Command{
		Use:   "brewlog",
		Short: "Offline-first brew journal",
		Long: `brewlog records espresso brews while offline and reconciles them with
the remote brew service when connectivity returns. Drafts are queued
locally, delivered in batches, and conflicts are surfaced for manual
resolution instead of being overwritten.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to JSON config file")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")
	cmd.PersistentFlags().StringVar(&apiURL, "api", "", "override the API base URL")

	load := func(ctx context.Context) (*App, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if apiURL != "" {
			cfg.APIBaseURL = apiURL
		}
		return NewApp(ctx, cfg)
	}

	cmd.AddCommand(AddCmd(load))
	cmd.AddCommand(ListCmd(load))
	cmd.AddCommand(SyncCmd(load))
	cmd.AddCommand(StatusCmd(load))
	cmd.AddCommand(ConflictsCmd(load))
	cmd.AddCommand(WatchCmd(load))
	cmd.AddCommand(ResetCmd(load))

	return cmd
}
