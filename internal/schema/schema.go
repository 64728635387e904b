// Package schema holds the label_reader contract: the JSON Schema the vision
// model is asked to follow and the strict decoder that enforces it on every
// payload before it becomes a domain.ProductRecord.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/consumewise/backend/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Name is the schema name sent with structured-output requests
const Name = "label_reader"

//go:embed label_reader.json
var labelReaderJSON []byte

// Document returns a copy of the raw label_reader JSON Schema
func Document() []byte {
	return bytes.Clone(labelReaderJSON)
}

// Validator decodes payloads into ProductRecords, rejecting anything that is
// not an exact match for the label_reader schema
type Validator struct {
	schema *jsonschema.Schema
	fields *validator.Validate
}

// NewValidator compiles the embedded schema
func NewValidator() (*Validator, error) {
	compiled, err := jsonschema.CompileString(Name+".json", string(labelReaderJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s schema: %w", Name, err)
	}

	fields := validator.New()
	// Reuse the gin binding tags declared on the domain types
	fields.SetTagName("binding")

	return &Validator{
		schema: compiled,
		fields: fields,
	}, nil
}

// Decode validates payload against the schema and decodes it.
// All failures wrap domain.ErrSchemaViolation.
func (v *Validator) Decode(payload []byte) (*domain.ProductRecord, error) {
	var document interface{}
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %w", domain.ErrSchemaViolation, err)
	}

	if err := v.schema.Validate(document); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()

	var record domain.ProductRecord
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
	}

	if err := v.fields.Struct(&record); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
	}

	return &record, nil
}

// Check validates an already decoded record, e.g. one built in code
func (v *Validator) Check(record *domain.ProductRecord) error {
	if record == nil {
		return fmt.Errorf("%w: nil record", domain.ErrSchemaViolation)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchemaViolation, err)
	}
	_, err = v.Decode(payload)
	return err
}
