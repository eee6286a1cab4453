package feedsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/feedsearch/internal/db/postgres"
	"github.com/kailas-cloud/feedsearch/internal/domain"
	searchrepo "github.com/kailas-cloud/feedsearch/internal/repository/search"
	openaiEmb "github.com/kailas-cloud/feedsearch/internal/transport/openai"
	healthuc "github.com/kailas-cloud/feedsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/feedsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the use cases.
type searchUseCase interface {
	SearchPosts(ctx context.Context, p domain.SearchParams) ([]domain.PostMatch, error)
	SearchComments(ctx context.Context, p domain.SearchParams) ([]domain.CommentMatch, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Embedder vectorizes text. Implement it to plug a non-OpenAI provider.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Client is the feedsearch SDK entry point.
type Client struct {
	pool      *postgres.Pool
	searchSvc searchUseCase
	healthSvc healthUseCase
}

// New creates a feedsearch Client and connects to the database.
// The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		model:      "text-embedding-3-small",
		dimensions: 1536,
		posts: domain.CorpusSpec{
			Corpus:          domain.CorpusPosts,
			Table:           "fellowship_mvp",
			EmbeddingColumn: "title_embedding_gemini",
			Mode:            domain.ScoreModeSimilarity,
		},
		comments: domain.CorpusSpec{
			Corpus:          domain.CorpusComments,
			Table:           "fellowship_mvp_comments",
			EmbeddingColumn: "content_embedding",
			Mode:            domain.ScoreModeDistance,
		},
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.databaseURL == "" {
		return nil, errors.New("feedsearch: database URL required (use WithDatabase)")
	}
	if cfg.embedder == nil && cfg.openAIKey == "" {
		return nil, errors.New("feedsearch: embedding provider required (use WithOpenAI or WithEmbedder)")
	}

	pool, err := postgres.New(ctx, postgres.Config{
		URL:      cfg.databaseURL,
		MaxConns: cfg.maxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("feedsearch: create pool: %w", err)
	}

	if err := pool.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		pool.Close()
		return nil, fmt.Errorf("feedsearch: database not ready: %w", err)
	}

	client, err := wireClient(pool, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(pool *postgres.Pool, cfg *clientConfig) (*Client, error) {
	var emb domain.Embedder
	var checker healthuc.EmbeddingChecker
	if cfg.embedder != nil {
		emb = &embedderAdapter{inner: cfg.embedder}
	} else {
		e := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.model,
			Dimensions: cfg.dimensions,
			Logger:     cfg.logger,
		})
		emb = e
		checker = e
	}

	repo, err := searchrepo.New(pool, cfg.posts, cfg.comments)
	if err != nil {
		return nil, fmt.Errorf("feedsearch: create repository: %w", err)
	}

	searchSvc := searchuc.New(repo, emb, cfg.posts, cfg.comments, cfg.logger).
		WithTimeouts(cfg.embedTimeout, cfg.queryTimeout)

	return &Client{
		pool:      pool,
		searchSvc: searchSvc,
		healthSvc: healthuc.New(pool, checker),
	}, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Health aggregates database and embedding provider status.
func (c *Client) Health(ctx context.Context) Health {
	return healthReport(c.healthSvc.Check(ctx))
}

// SearchPosts runs a semantic search over the posts corpus.
func (c *Client) SearchPosts(ctx context.Context, query string, opts ...SearchOption) ([]PostResult, error) {
	params, err := buildParams(query, opts)
	if err != nil {
		return nil, err
	}

	matches, err := c.searchSvc.SearchPosts(ctx, params)
	if err != nil {
		return nil, err
	}

	results := make([]PostResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, postResult(m))
	}
	return results, nil
}

// SearchComments runs a semantic search over the comments corpus.
func (c *Client) SearchComments(ctx context.Context, query string, opts ...SearchOption) ([]CommentResult, error) {
	params, err := buildParams(query, opts)
	if err != nil {
		return nil, err
	}

	matches, err := c.searchSvc.SearchComments(ctx, params)
	if err != nil {
		return nil, err
	}

	results := make([]CommentResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, commentResult(m))
	}
	return results, nil
}

// SearchOption tunes a single search call.
type SearchOption func(*searchOptions)

type searchOptions struct {
	limit     *int
	threshold *float64
}

// Limit caps the number of results. Default: 10.
func Limit(n int) SearchOption {
	return func(o *searchOptions) { o.limit = &n }
}

// Threshold sets the minimum similarity score, inclusive. Default: 0.7.
func Threshold(t float64) SearchOption {
	return func(o *searchOptions) { o.threshold = &t }
}

func buildParams(query string, opts []SearchOption) (domain.SearchParams, error) {
	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}
	return domain.NewSearchParams(query, o.limit, o.threshold)
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
