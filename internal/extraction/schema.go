package extraction

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed candidate.schema.json
var candidateSchemaJSON string

const candidateSchemaURL = "candidate.schema.json"

func compileCandidateSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(candidateSchemaURL, strings.NewReader(candidateSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add candidate schema: %w", err)
	}
	schema, err := compiler.Compile(candidateSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile candidate schema: %w", err)
	}
	return schema, nil
}

// validateCandidates checks raw, which must already be valid JSON, against
// schema.
func validateCandidates(schema *jsonschema.Schema, raw string) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return &Error{Kind: KindInvalidJSON, Fragment: raw, Diagnostic: err.Error(), Err: err}
	}

	err := schema.Validate(instance)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &Error{Kind: KindSchemaMismatch, Diagnostic: err.Error(), Err: err}
	}
	leaf := firstLeaf(ve)
	return &Error{
		Kind:       KindSchemaMismatch,
		Field:      leaf.InstanceLocation,
		Diagnostic: leaf.Message,
		Err:        err,
	}
}

// firstLeaf returns the most specific cause along the first branch.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
