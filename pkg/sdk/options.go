package feedsearch

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedsearch/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	databaseURL string
	maxConns    int32

	openAIKey     string
	openAIBaseURL string
	model         string
	dimensions    int
	embedder      Embedder

	posts    domain.CorpusSpec
	comments domain.CorpusSpec

	embedTimeout time.Duration
	queryTimeout time.Duration

	logger *zap.Logger
}

// WithDatabase sets the Postgres connection URL. Required.
func WithDatabase(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.databaseURL = url
	})
}

// WithMaxConns caps the connection pool size. Default: 10.
func WithMaxConns(n int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = n
	})
}

// WithOpenAI configures the embedding provider with an OpenAI API key.
// Either this or WithEmbedder is required.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
	})
}

// WithOpenAIBaseURL points the embedding client at an OpenAI-compatible
// endpoint (proxy, Azure, local server).
func WithOpenAIBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = baseURL
	})
}

// WithEmbeddingModel sets the model and expected dimensionality.
// Defaults: text-embedding-3-small, 1536 dimensions.
func WithEmbeddingModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.model = model
		c.dimensions = dimensions
	})
}

// WithEmbedder sets a custom embedding provider instead of OpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithPostsCorpus overrides the table, embedding column and score mode
// for the posts corpus.
func WithPostsCorpus(table, embeddingColumn, mode string) Option {
	return optionFunc(func(c *clientConfig) {
		c.posts = domain.CorpusSpec{
			Corpus:          domain.CorpusPosts,
			Table:           table,
			EmbeddingColumn: embeddingColumn,
			Mode:            domain.ScoreMode(mode),
		}
	})
}

// WithCommentsCorpus overrides the table, embedding column and score mode
// for the comments corpus.
func WithCommentsCorpus(table, embeddingColumn, mode string) Option {
	return optionFunc(func(c *clientConfig) {
		c.comments = domain.CorpusSpec{
			Corpus:          domain.CorpusComments,
			Table:           table,
			EmbeddingColumn: embeddingColumn,
			Mode:            domain.ScoreMode(mode),
		}
	})
}

// WithTimeouts bounds the embedding call and the store query per request.
// Defaults: 10s embed, 5s query. Zero values keep the defaults.
func WithTimeouts(embed, query time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedTimeout = embed
		c.queryTimeout = query
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
