package search

import (
	"context"

	"github.com/kailas-cloud/feedsearch/internal/domain"
)

// Repository defines the storage contract for similarity queries.
// Implementations must return an error on store failure, never an empty set;
// an empty slice with a nil error means no candidates matched.
type Repository interface {
	SearchPosts(ctx context.Context, vector []float32, limit int, threshold float64) ([]domain.ScoredPost, error)
	SearchComments(ctx context.Context, vector []float32, limit int, threshold float64) ([]domain.ScoredComment, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
