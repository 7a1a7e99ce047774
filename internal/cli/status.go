package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StatusCmd shows the storage diagnostic snapshot.
func StatusCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage and sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			info, err := app.Syncer.Info(ctx)
			if err != nil {
				return err
			}

			online := app.Monitor.IsOnline()

			fmt.Printf("Backend:    %s\n", info.BackendKind)
			fmt.Printf("Drafts:     %d\n", info.DraftCount)
			fmt.Printf("Pending:    %d\n", info.PendingCount)
			if info.ConflictCount > 0 {
				color.Yellow("Conflicts:  %d (manual resolution needed)", info.ConflictCount)
			} else {
				fmt.Printf("Conflicts:  %d\n", info.ConflictCount)
			}
			if info.LastSyncedAt.IsZero() {
				fmt.Println("Last sync:  never")
			} else {
				fmt.Printf("Last sync:  %s\n", info.LastSyncedAt.Format("2006-01-02 15:04:05"))
			}
			if online {
				color.Green("Network:    online")
			} else {
				color.Red("Network:    offline")
			}
			return nil
		},
	}
}
