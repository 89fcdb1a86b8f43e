// Package schema validates outbound scan payloads against the API's
// request schema. It exists for the raw-payload paths (query files,
// SetProperty passthrough) where nothing else checks the document shape.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator checks scan request documents.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the built-in scan request schema.
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(scanRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("parsing scan request schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("scan-request.json", doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}
	compiled, err := compiler.Compile("scan-request.json")
	if err != nil {
		return nil, fmt.Errorf("compiling scan request schema: %w", err)
	}

	return &Validator{schema: compiled}, nil
}

// ValidateJSON validates a raw JSON document. It returns nil when the
// document is valid, otherwise one message per violation.
func (v *Validator) ValidateJSON(data []byte) []string {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return []string{fmt.Sprintf("invalid JSON: %s", err)}
	}
	return v.validate(value)
}

// ValidatePayload validates a compiled payload. The payload is
// round-tripped through JSON first, since it holds typed Go values
// rather than plain decoded ones.
func (v *Validator) ValidatePayload(payload map[string]any) []string {
	data, err := json.Marshal(payload)
	if err != nil {
		return []string{fmt.Sprintf("encoding payload: %s", err)}
	}
	return v.ValidateJSON(data)
}

func (v *Validator) validate(value any) []string {
	err := v.schema.Validate(value)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens a ValidationError tree into
// deduplicated per-path messages.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectErrors recursively collects leaf errors, skipping $ref
// indirection messages.
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], msg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
