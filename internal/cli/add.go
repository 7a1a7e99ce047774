package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openbrew/brewlog/internal/models"
)

// AddCmd records a brew draft. Works fully offline: the draft is queued
// for the next sync.
func AddCmd(load appLoader) *cobra.Command {
	var (
		name         string
		machineID    int64
		bagID        int64
		grinderID    int64
		brewTime     float64
		dose         float64
		yield        float64
		rating       int
		tastingNotes string
		reflections  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a brew draft",
		Example: `  brewlog add --name "morning flat white" --machine 1 --bag 3 --grinder 2 \
      --dose 18.2 --yield 36.5 --rating 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := load(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			baristaID, err := app.Identity.CurrentBaristaID(ctx)
			if err != nil {
				return fmt.Errorf("cannot record a brew without a stored login: %w", err)
			}

			now := time.Now().UTC()
			payload := models.BrewPayload{
				Name:         name,
				MachineID:    machineID,
				BagID:        bagID,
				GrinderID:    grinderID,
				BaristaID:    baristaID,
				Timestamp:    &now,
				TastingNotes: tastingNotes,
				Reflections:  reflections,
			}
			if cmd.Flags().Changed("brew-time") {
				payload.BrewTime = &brewTime
			}
			if cmd.Flags().Changed("dose") {
				payload.Dose = &dose
			}
			if cmd.Flags().Changed("yield") {
				payload.Yield = &yield
			}
			if cmd.Flags().Changed("rating") {
				payload.Rating = &rating
			}

			id, err := app.Drafts.Save(ctx, &models.Draft{Payload: payload})
			if err != nil {
				return err
			}

			fmt.Printf("Recorded draft %s (queued for sync)\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name of the brew")
	cmd.Flags().Int64Var(&machineID, "machine", 0, "machine id")
	cmd.Flags().Int64Var(&bagID, "bag", 0, "bag id")
	cmd.Flags().Int64Var(&grinderID, "grinder", 0, "grinder id")
	cmd.Flags().Float64Var(&brewTime, "brew-time", 0, "brew time in seconds")
	cmd.Flags().Float64Var(&dose, "dose", 0, "dose in grams")
	cmd.Flags().Float64Var(&yield, "yield", 0, "yield in grams")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating 0-10")
	cmd.Flags().StringVar(&tastingNotes, "notes", "", "tasting notes")
	cmd.Flags().StringVar(&reflections, "reflections", "", "reflections")

	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("machine")
	_ = cmd.MarkFlagRequired("bag")
	_ = cmd.MarkFlagRequired("grinder")

	return cmd
}
