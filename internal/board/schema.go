package board

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema describes the stored per-column document.
const documentSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "items"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "items": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["id", "content"],
          "properties": {
            "id": {"type": "string", "minLength": 1},
            "content": {"type": "string"},
            "description": {"type": "string"},
            "date": {"type": ["string", "null"]}
          }
        }
      }
    }
  }
}`

// flatSchema describes the flat export layout. Dates are checked when they
// are parsed so a bad date reports INVALID_DATE.
const flatSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "stage"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "description": {"type": ["string", "null"]},
      "date": {"type": ["string", "null"]},
      "stage": {"type": "string"}
    }
  }
}`

var (
	documentValidator = jsonschema.MustCompileString("document.schema.json", documentSchema)
	flatValidator     = jsonschema.MustCompileString("flat.schema.json", flatSchema)
)

// SchemaError reports where a document failed validation.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// validate checks data against schema. data must already be valid JSON.
func validate(schema *jsonschema.Schema, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return firstCause(ve)
}

// firstCause returns the deepest leading cause, which names the offending
// field rather than the enclosing array.
func firstCause(ve *jsonschema.ValidationError) *SchemaError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SchemaError{Path: ve.InstanceLocation, Message: ve.Message}
}
