package sweep

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	//go:embed schemas/patterns.schema.json
	patternsSchemaJSON []byte

	//go:embed schemas/postal_codes.schema.json
	postalCodesSchemaJSON []byte
)

var (
	patternsSchema    = mustCompileSchema("patterns.schema.json", patternsSchemaJSON)
	postalCodesSchema = mustCompileSchema("postal_codes.schema.json", postalCodesSchemaJSON)
)

// mustCompileSchema compiles one of the embedded schemas. The schemas ship
// with the binary, so a failure here is a programming error.
func mustCompileSchema(name string, src []byte) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(name, bytes.NewReader(src)); err != nil {
		panic(fmt.Sprintf("sweep: failed to add schema resource %s: %v", name, err))
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("sweep: failed to compile schema %s: %v", name, err))
	}

	return schema
}

// validateSchema checks a decoded JSON value against schema and flattens
// any validation failure into a single readable error.
func validateSchema(schema *jsonschema.Schema, doc any) error {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return formatSchemaValidationError(validationErr)
	}

	return fmt.Errorf("schema validation failed: %w", err)
}

func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return fmt.Errorf("document does not match schema")
	}

	return fmt.Errorf("document does not match schema: %s", strings.Join(messages, "; "))
}
