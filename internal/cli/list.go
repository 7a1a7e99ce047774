package cli

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ListCmd prints all drafts, newest first, marking the ones still queued.
func ListCmd(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			all, err := app.Drafts.GetAll(ctx)
			if err != nil {
				return err
			}
			pending, err := app.Drafts.PendingIDs(ctx)
			if err != nil {
				return err
			}

			if len(all) == 0 {
				fmt.Println("No drafts recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCREATED\tSTATE")
			for _, d := range all {
				state := "synced"
				if slices.Contains(pending, d.Id) {
					state = "pending"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					d.Id, d.Payload.Name, d.CreatedAt.Format("2006-01-02 15:04"), state)
			}
			return w.Flush()
		},
	}
}
