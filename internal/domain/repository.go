package domain

import "context"

// ProductRepository defines the document store operations the core relies on.
// Implementations are externally synchronized and safe for concurrent use.
type ProductRepository interface {
	// Insert stores the record atomically and returns the generated id
	Insert(ctx context.Context, record *ProductRecord) (string, error)

	// FindByNameContains returns every product whose name contains term,
	// compared case-insensitively and literally (no pattern syntax)
	FindByNameContains(ctx context.Context, term string) ([]StoredProduct, error)

	// FindOneByName returns the product whose name equals name exactly,
	// or ErrProductNotFound
	FindOneByName(ctx context.Context, name string) (*StoredProduct, error)
}

// ExtractionRequest is a single call to the vision model: the instruction
// prompt followed by the label images, in order
type ExtractionRequest struct {
	Instructions string
	ImageURLs    []string
}

// VisionExtractor defines the interface for the vision model that turns
// label images into a JSON document under the strict label_reader schema
type VisionExtractor interface {
	ExtractStructured(ctx context.Context, request ExtractionRequest) (string, error)
}
