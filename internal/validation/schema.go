// Package validation checks translation override payloads against the JSON
// schema of their entity type.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-padel/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

const (
	maxTextFieldLength = 20000
	maxHTMLFieldLength = 400000
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// FieldsSchema describes the override payload accepted for entity: an object
// whose keys are the entity's translatable fields, each a string.
func FieldsSchema(entity domain.EntityType) map[string]any {
	properties := map[string]any{}
	for _, field := range entity.TranslatableFields() {
		limit := maxTextFieldLength
		if domain.IsHTMLField(field) {
			limit = maxHTMLFieldLength
		}
		properties[field] = map[string]any{
			"type":      "string",
			"maxLength": limit,
		}
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                string(entity) + " translation",
		"type":                 "object",
		"minProperties":        1,
		"properties":           properties,
		"additionalProperties": false,
	}
}

var compiled sync.Map // domain.EntityType -> *jsonschema.Schema

// ValidateFields checks fields against the schema of entity.
func ValidateFields(entity domain.EntityType, fields map[string]string) error {
	schema, err := schemaFor(entity)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(fields))
	for key, value := range fields {
		payload[key] = value
	}
	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &PayloadValidationError{
				Issues: collectValidationIssues(validationErr),
				Cause:  err,
			}
		}
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

func schemaFor(entity domain.EntityType) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(entity); ok {
		return cached.(*jsonschema.Schema), nil
	}
	if len(entity.TranslatableFields()) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrSchemaInvalid, domain.ErrEntityTypeInvalid)
	}
	schema, err := compileSchema(FieldsSchema(entity))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	actual, _ := compiled.LoadOrStore(entity, schema)
	return actual.(*jsonschema.Schema), nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
