package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

const documentSchemaURL = "https://ganttboard.dev/schemas/import.json"

// documentSchemaJSON describes the import document shape. Cross-item rules
// (unique refs, parent and dependency refs) live in ValidateDocument.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://ganttboard.dev/schemas/import.json",
  "type": "object",
  "required": ["items"],
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "project": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": { "type": "string" },
        "description": { "type": "string" }
      },
      "additionalProperties": false
    },
    "items": {
      "type": "array",
      "items": { "$ref": "#/$defs/item" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "item": {
      "type": "object",
      "required": ["ref", "name", "start_date", "end_date"],
      "properties": {
        "ref": { "type": "string", "minLength": 1 },
        "name": { "type": "string", "minLength": 1 },
        "type": { "enum": ["phase", "milestone", "task"] },
        "status": { "enum": ["not-started", "in-progress", "completed", "on-hold", "cancelled"] },
        "progress": { "type": "integer", "minimum": 0, "maximum": 100 },
        "start_date": { "$ref": "#/$defs/date" },
        "end_date": { "$ref": "#/$defs/date" },
        "description": { "type": "string" },
        "assignee": { "type": "string" },
        "priority": { "enum": ["low", "medium", "high", "critical"] },
        "approval": { "enum": ["pending", "approved", "rejected", "not-required"] },
        "blockers": { "type": "array", "items": { "type": "string" } },
        "depends_on": { "type": "array", "items": { "type": "string" } },
        "parent_ref": { "type": "string" },
        "color": { "type": "string", "pattern": "^#[0-9A-Fa-f]{6}$" }
      },
      "additionalProperties": false
    },
    "date": {
      "type": "string",
      "anyOf": [
        { "format": "date" },
        { "format": "date-time" }
      ]
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal import schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(documentSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add import schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(documentSchemaURL)
	})
	return schema, schemaErr
}

// ValidateJSON checks raw JSON against the document schema. Violations are
// returned as a ValidationError.
func ValidateJSON(data []byte) error {
	sch, err := documentSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return domain.NewValidationError("import", "malformed JSON: %v", err)
	}
	if err := sch.Validate(inst); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return domain.NewValidationError("import", "%s", strings.TrimSpace(ve.Error()))
		}
		return fmt.Errorf("validating import document: %w", err)
	}
	return nil
}
