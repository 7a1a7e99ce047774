package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbrew/brewlog/internal/models"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*models.BrewPayload)
		wantErr bool
	}{
		{"valid minimal", func(*models.BrewPayload) {}, false},
		{"empty name", func(p *models.BrewPayload) { p.Name = "" }, true},
		{"zero machine", func(p *models.BrewPayload) { p.MachineID = 0 }, true},
		{"empty barista", func(p *models.BrewPayload) { p.BaristaID = "" }, true},
		{"rating too high", func(p *models.BrewPayload) { r := 11; p.Rating = &r }, true},
		{"rating in range", func(p *models.BrewPayload) { r := 8; p.Rating = &r }, false},
		{"zero dose", func(p *models.BrewPayload) { d := 0.0; p.Dose = &d }, true},
		{"notes allowed", func(p *models.BrewPayload) { p.TastingNotes = "bright, floral" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := v.Validate(p)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
