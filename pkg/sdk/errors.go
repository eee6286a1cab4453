package feedsearch

import "github.com/kailas-cloud/feedsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest       = domain.ErrInvalidRequest
	ErrEmbeddingUnavailable = domain.ErrEmbeddingUnavailable
	ErrQueryFailed          = domain.ErrQueryFailed
)
