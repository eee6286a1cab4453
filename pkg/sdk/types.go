package feedsearch

import (
	"time"

	"github.com/kailas-cloud/feedsearch/internal/domain"
	healthuc "github.com/kailas-cloud/feedsearch/internal/usecase/health"
)

// PostResult is a single post match with its normalized similarity score.
type PostResult struct {
	ID       int64
	PostID   string
	Title    string
	URL      *string
	Author   *string
	PostedAt *time.Time

	// Score is the similarity in [0, 1] rounded to six decimals.
	Score float64
}

// CommentResult is a single comment match with its normalized similarity score.
type CommentResult struct {
	ID        int64
	CommentID string
	PostID    string
	Content   *string
	Author    *string
	PostedAt  *time.Time

	Score float64
}

// Health is the aggregated component status.
type Health struct {
	Status string            // "healthy" or "degraded"
	Checks map[string]string // component name -> "ok" or "error"
}

// EmbeddingResult is a query embedding with provider token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

func postResult(m domain.PostMatch) PostResult {
	return PostResult{
		ID:       m.ID,
		PostID:   m.PostID,
		Title:    m.Title,
		URL:      m.URL,
		Author:   m.Author,
		PostedAt: m.PostedAt,
		Score:    m.SimilarityScore,
	}
}

func commentResult(m domain.CommentMatch) CommentResult {
	return CommentResult{
		ID:        m.ID,
		CommentID: m.CommentID,
		PostID:    m.PostID,
		Content:   m.Content,
		Author:    m.Author,
		PostedAt:  m.PostedAt,
		Score:     m.SimilarityScore,
	}
}

func healthReport(r healthuc.Report) Health {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return Health{Status: string(r.Status), Checks: checks}
}
