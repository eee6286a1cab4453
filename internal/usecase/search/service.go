// Package search orchestrates the similarity-search pipeline:
// embed the query, run the nearest-neighbor query, normalize row scores.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedsearch/internal/domain"
	"github.com/kailas-cloud/feedsearch/internal/metrics"
)

// Service handles semantic search over the posts and comments corpora.
// It is stateless per request; the repository and embedder it holds are
// safe for concurrent use.
type Service struct {
	repo  Repository
	embed Embedder

	posts    domain.CorpusSpec
	comments domain.CorpusSpec

	embedTimeout time.Duration
	queryTimeout time.Duration

	logger *zap.Logger
}

// New creates a search service.
func New(repo Repository, embed Embedder, posts, comments domain.CorpusSpec, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:         repo,
		embed:        embed,
		posts:        posts,
		comments:     comments,
		embedTimeout: 10 * time.Second,
		queryTimeout: 5 * time.Second,
		logger:       logger,
	}
}

// WithTimeouts bounds the embedding-provider call and the store query.
// Zero values keep the current settings.
func (s *Service) WithTimeouts(embed, query time.Duration) *Service {
	if embed > 0 {
		s.embedTimeout = embed
	}
	if query > 0 {
		s.queryTimeout = query
	}
	return s
}

// SearchPosts runs the pipeline for the posts corpus. Results are ordered
// by similarity descending; ties keep store order.
func (s *Service) SearchPosts(ctx context.Context, p domain.SearchParams) ([]domain.PostMatch, error) {
	start := time.Now()

	vector, err := s.embedQuery(ctx, domain.CorpusPosts, p.Query)
	if err != nil {
		return nil, err
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.SearchPosts(qctx, vector, p.Limit, p.Threshold)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(domain.CorpusPosts), "query_error").Inc()
		return nil, fmt.Errorf("search posts: %w", err)
	}

	matches := make([]domain.PostMatch, 0, len(rows))
	for _, row := range rows {
		score, reason := normalizeScore(row.Score, s.posts.Mode, p.Threshold)
		if reason != discardNone {
			metrics.SearchRowsDiscardedTotal.WithLabelValues(string(domain.CorpusPosts), string(reason)).Inc()
			continue
		}
		matches = append(matches, domain.PostMatch{Post: row.Post, SimilarityScore: score})
	}

	s.observe(domain.CorpusPosts, start, len(rows), len(matches))
	return matches, nil
}

// SearchComments runs the pipeline for the comments corpus.
func (s *Service) SearchComments(ctx context.Context, p domain.SearchParams) ([]domain.CommentMatch, error) {
	start := time.Now()

	vector, err := s.embedQuery(ctx, domain.CorpusComments, p.Query)
	if err != nil {
		return nil, err
	}

	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.repo.SearchComments(qctx, vector, p.Limit, p.Threshold)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(domain.CorpusComments), "query_error").Inc()
		return nil, fmt.Errorf("search comments: %w", err)
	}

	matches := make([]domain.CommentMatch, 0, len(rows))
	for _, row := range rows {
		score, reason := normalizeScore(row.Score, s.comments.Mode, p.Threshold)
		if reason != discardNone {
			metrics.SearchRowsDiscardedTotal.WithLabelValues(string(domain.CorpusComments), string(reason)).Inc()
			continue
		}
		matches = append(matches, domain.CommentMatch{Comment: row.Comment, SimilarityScore: score})
	}

	s.observe(domain.CorpusComments, start, len(rows), len(matches))
	return matches, nil
}

// embedQuery acquires the query vector with its own timeout. The store
// connection is acquired later, only for the query phase, so pool usage
// stays short-lived. A provider failure aborts the request before any
// store query runs.
func (s *Service) embedQuery(ctx context.Context, corpus domain.Corpus, query string) ([]float32, error) {
	ectx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	result, err := s.embed.Embed(ectx, query)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(corpus), "embedding_error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}

	// Only the shape is logged, never the vector contents.
	s.logger.Debug("query vector acquired",
		zap.String("corpus", string(corpus)),
		zap.Int("dimensions", len(result.Embedding)),
	)

	return result.Embedding, nil
}

func (s *Service) observe(corpus domain.Corpus, start time.Time, candidates, returned int) {
	metrics.SearchRequestsTotal.WithLabelValues(string(corpus), "success").Inc()
	metrics.SearchDuration.WithLabelValues(string(corpus)).Observe(time.Since(start).Seconds())

	s.logger.Debug("search completed",
		zap.String("corpus", string(corpus)),
		zap.Int("candidates", candidates),
		zap.Int("returned", returned),
		zap.Duration("latency", time.Since(start)),
	)
}
