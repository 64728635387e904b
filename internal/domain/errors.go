package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	// (empty image list, blank product name)
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrExtractionFailed is returned when the vision model call fails or
	// its payload cannot be turned into a ProductRecord
	ErrExtractionFailed = errors.New("label extraction failed")

	// ErrSchemaViolation is returned when a payload does not conform to the
	// label_reader schema
	ErrSchemaViolation = errors.New("payload does not match product schema")

	// ErrStoreFailure is returned when the document store cannot be reached
	// or a query fails
	ErrStoreFailure = errors.New("product store request failed")

	// ErrProductNotFound is returned when an exact lookup has no match
	ErrProductNotFound = errors.New("product not found")
)

// PersistError reports a failed insert of a record that was already
// extracted. Record is kept so the caller can retry the insert without
// running extraction again.
type PersistError struct {
	Record *ProductRecord
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist extracted product %q: %v", e.Record.ProductName, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
