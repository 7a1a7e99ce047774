package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openbrew/brewlog/internal/syncer"
)

// WatchCmd runs the background sync scheduler until interrupted: periodic
// attempts while online, plus an immediate attempt whenever connectivity
// returns.
func WatchCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep syncing in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			unsubscribe := app.Syncer.Subscribe(func(ev syncer.StatusEvent) {
				switch ev.Status {
				case syncer.StatusStarted:
					fmt.Printf("sync started: %d pending\n", ev.Pending)
				case syncer.StatusCompleted:
					color.Green("sync completed: %d synced, %d failed, %d conflicts",
						ev.Synced, ev.Failed, ev.Conflicts)
				case syncer.StatusError:
					color.Red("sync error: %s", ev.Error)
				}
			})
			defer unsubscribe()

			hasPending := func(ctx context.Context) bool {
				ids, err := app.Drafts.PendingIDs(ctx)
				return err == nil && len(ids) > 0
			}
			syncFn := func(ctx context.Context) {
				app.Syncer.Sync(ctx)
			}

			dispose := app.Monitor.StartBackgroundSync(ctx, hasPending, syncFn)
			defer dispose()

			fmt.Println("Watching for pending drafts; press Ctrl-C to stop.")
			<-ctx.Done()
			return nil
		},
	}
}
