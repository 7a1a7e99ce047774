package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ConflictsCmd groups conflict inspection and resolution.
func ConflictsCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Inspect and resolve sync conflicts",
	}
	cmd.AddCommand(conflictsListCmd(load))
	cmd.AddCommand(conflictsResolveCmd(load))
	return cmd
}

func conflictsListCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List unresolved conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.Conflicts.All(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No unresolved conflicts.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DRAFT\tKIND\tDETECTED\tMESSAGE")
			for _, c := range all {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.DraftID, c.Kind, c.DetectedAt.Format("2006-01-02 15:04"), c.Message)
			}
			return w.Flush()
		},
	}
}

// conflictsResolveCmd clears a conflict record. Which side wins is decided
// by the barista before running this; the engine never auto-resolves.
func conflictsResolveCmd(load appLoader) *cobra.Command {
	var requeue bool

	cmd := &cobra.Command{
		Use:   "resolve <draft-id>",
		Short: "Mark a conflict as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			draftID := args[0]

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Conflicts.Resolve(ctx, draftID); err != nil {
				return err
			}
			if requeue {
				if err := app.Queue.Enqueue(ctx, draftID); err != nil {
					return err
				}
				fmt.Printf("Conflict for %s resolved; draft re-queued for delivery.\n", draftID)
				return nil
			}

			if err := app.Queue.Remove(ctx, draftID); err != nil {
				return err
			}
			fmt.Printf("Conflict for %s resolved; draft kept locally only.\n", draftID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&requeue, "requeue", false, "send the local draft again on next sync")
	return cmd
}
