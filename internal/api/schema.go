package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/openbrew/brewlog/internal/models"
)

//go:embed brew.schema.json
var brewSchemaJSON []byte

// Validator checks brew payloads against the create-brew schema before
// they leave the device, so a malformed draft surfaces locally instead of
// as an opaque server rejection.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(brewSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse brew schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("brew.schema.json", doc); err != nil {
		return nil, fmt.Errorf("failed to add brew schema: %w", err)
	}
	schema, err := compiler.Compile("brew.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile brew schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

func (v *Validator) Validate(p models.BrewPayload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	if err := v.schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid brew payload: %w", err)
	}
	return nil
}
