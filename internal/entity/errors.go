package entity

import "errors"

// Domain errors
var (
	// Ingestion errors
	ErrInvalidCategory = errors.New("invalid category")
	ErrSheetNotFound   = errors.New("sheet not found")
	ErrNoSheetRows     = errors.New("sheet contains no usable rows")

	// Embedding errors
	ErrEmptyEmbeddingInput = errors.New("embedding input is empty")
	ErrEmbeddingDimension  = errors.New("unexpected embedding dimension")

	// Generation errors
	ErrEmptyGeneration = errors.New("model returned no answer")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
