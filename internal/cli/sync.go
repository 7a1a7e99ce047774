package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SyncCmd runs one sync attempt and reports the outcome.
func SyncCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Deliver pending drafts to the brew service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			result := app.Syncer.Sync(ctx)

			switch {
			case result.InProgress:
				color.Yellow("A sync is already in progress.")
			case result.Success:
				color.Green("Synced %d draft(s).", result.SyncedCount)
			default:
				color.Red("Sync incomplete: %s", result.Error)
			}

			if result.Conflicts > 0 {
				color.Yellow("%d conflict(s) filed; run `brewlog conflicts list`.", result.Conflicts)
			}
			for _, f := range result.Failed {
				fmt.Printf("  %s: %s\n", f.DraftID, f.Err)
			}
			return nil
		},
	}
}
