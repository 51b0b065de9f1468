package sweep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// PatternList is the ordered list of raw pattern strings under test.
type PatternList []string

type patternsDocument struct {
	Regexes []string `json:"regexes"`
}

type postalCodesDocument struct {
	PostalCodes []int `json:"postalCodes"`
}

// LoadPatterns reads a {"regexes": [...]} document from a .json, .yaml or
// .yml file.
func LoadPatterns(path string) (PatternList, error) {
	var doc patternsDocument
	if err := loadDocument(path, patternsSchema, &doc); err != nil {
		return nil, &LoadError{Source: "patterns from " + path, Err: err}
	}
	return PatternList(doc.Regexes), nil
}

// LoadPostalCodes reads a {"postalCodes": [...]} document from a .json,
// .yaml or .yml file.
func LoadPostalCodes(path string) ([]int, error) {
	var doc postalCodesDocument
	if err := loadDocument(path, postalCodesSchema, &doc); err != nil {
		return nil, &LoadError{Source: "postal codes from " + path, Err: err}
	}
	return doc.PostalCodes, nil
}

// DecodePatterns reads a JSON pattern document from r.
func DecodePatterns(r io.Reader) (PatternList, error) {
	var doc patternsDocument
	if err := decodeReader(r, patternsSchema, &doc); err != nil {
		return nil, &LoadError{Source: "patterns", Err: err}
	}
	return PatternList(doc.Regexes), nil
}

// DecodePostalCodes reads a JSON postal code document from r.
func DecodePostalCodes(r io.Reader) ([]int, error) {
	var doc postalCodesDocument
	if err := decodeReader(r, postalCodesSchema, &doc); err != nil {
		return nil, &LoadError{Source: "postal codes", Err: err}
	}
	return doc.PostalCodes, nil
}

func loadDocument(path string, schema *jsonschema.Schema, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return err
		}
	}

	return decodeDocument(data, schema, dst)
}

func decodeReader(r io.Reader, schema *jsonschema.Schema, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	return decodeDocument(data, schema, dst)
}

// decodeDocument validates data against schema before decoding it into
// dst, so structural problems surface as schema messages rather than as
// silently zero-valued fields.
func decodeDocument(data []byte, schema *jsonschema.Schema, dst any) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := validateSchema(schema, raw); err != nil {
		return err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	return nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// same schema check and decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	out, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	return out, nil
}
