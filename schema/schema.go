// Package schema validates decoded API payloads against JSON Schema
// documents (draft 7) embedded in the binary. It is meant for integration
// harnesses and diagnostics that want to pin the wire contract, not for the
// request hot path.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Names of the embedded schema documents.
const (
	// Envelope covers the response wrapper: the error array with its
	// "<severity><category>:<message>" strings plus an arbitrary result.
	Envelope = "envelope"
	// ServerTime covers the result payload of the server-time endpoint.
	ServerTime = "server_time"
	// AssetPairs covers the result payload of the asset-pairs endpoint.
	AssetPairs = "asset_pairs"
)

// Validator holds the compiled schema documents. It is safe for concurrent
// use.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema document.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("schema: reading embedded schemas: %w", err)
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}
	for _, entry := range entries {
		doc, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("schema: reading %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(entry.Name(), bytes.NewReader(doc)); err != nil {
			return nil, fmt.Errorf("schema: registering %s: %w", entry.Name(), err)
		}
		compiled, err := compiler.Compile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("schema: compiling %s: %w", entry.Name(), err)
		}
		v.schemas[strings.TrimSuffix(entry.Name(), ".json")] = compiled
	}
	return v, nil
}

// Validate checks a raw JSON payload against the named schema. All
// violations are aggregated into a single *ValidationError.
func (v *Validator) Validate(name string, payload []byte) error {
	compiled, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("schema: unknown schema %q", name)
	}

	var decoded interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("schema: decoding payload: %w", err)
	}

	if err := compiled.Validate(decoded); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Schema: name, Violations: flatten(verr)}
		}
		return fmt.Errorf("schema: validating against %s: %w", name, err)
	}
	return nil
}

// ValidationError reports every violation found in one payload.
type ValidationError struct {
	Schema     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// flatten walks the violation tree and keeps only the leaves, each prefixed
// with its instance location.
func flatten(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, err.Message)}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}
