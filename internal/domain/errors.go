package domain

import "errors"

var (
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	// ErrQueryFailed signals a similarity query failure against the store.
	ErrQueryFailed = errors.New("similarity query failed")
)
