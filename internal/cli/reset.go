package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ResetCmd wipes all drafts and the sync queue after confirmation.
func ResetCmd(load appLoader) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all local drafts and the sync queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !force {
				fmt.Print("This deletes every local draft. Type 'yes' to continue: ")
				answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Drafts.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("All drafts cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}
