package feedsearch

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/feedsearch/internal/domain"
	healthuc "github.com/kailas-cloud/feedsearch/internal/usecase/health"
)

// --- Mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockSearchUC struct {
	posts      []domain.PostMatch
	comments   []domain.CommentMatch
	err        error
	lastParams domain.SearchParams
}

func (m *mockSearchUC) SearchPosts(_ context.Context, p domain.SearchParams) ([]domain.PostMatch, error) {
	m.lastParams = p
	return m.posts, m.err
}

func (m *mockSearchUC) SearchComments(_ context.Context, p domain.SearchParams) ([]domain.CommentMatch, error) {
	m.lastParams = p
	return m.comments, m.err
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Tests ---

func TestNew_NoDatabaseURL(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("key"))
	if err == nil {
		t.Fatal("expected error when no database URL provided")
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New(context.Background(), WithDatabase("postgres://localhost/feeds"))
	if err == nil {
		t.Fatal("expected error when no embedding provider configured")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	opts := []Option{
		WithDatabase("postgres://localhost:5432/feeds"),
		WithMaxConns(20),
		WithOpenAI("sk-test"),
		WithOpenAIBaseURL("http://localhost:8080/v1"),
		WithEmbeddingModel("text-embedding-3-large", 3072),
		WithPostsCorpus("posts_tbl", "title_embedding", "similarity"),
		WithCommentsCorpus("comments_tbl", "body_embedding", "distance"),
		WithTimeouts(2*time.Second, time.Second),
		WithLogger(zap.NewNop()),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.databaseURL != "postgres://localhost:5432/feeds" {
		t.Errorf("databaseURL = %q", cfg.databaseURL)
	}
	if cfg.maxConns != 20 {
		t.Errorf("maxConns = %d, want 20", cfg.maxConns)
	}
	if cfg.model != "text-embedding-3-large" || cfg.dimensions != 3072 {
		t.Errorf("model = %q/%d", cfg.model, cfg.dimensions)
	}
	if cfg.posts.Table != "posts_tbl" || cfg.posts.Mode != domain.ScoreModeSimilarity {
		t.Errorf("posts spec = %+v", cfg.posts)
	}
	if cfg.comments.EmbeddingColumn != "body_embedding" || cfg.comments.Mode != domain.ScoreModeDistance {
		t.Errorf("comments spec = %+v", cfg.comments)
	}
	if cfg.embedTimeout != 2*time.Second || cfg.queryTimeout != time.Second {
		t.Errorf("timeouts = %v/%v", cfg.embedTimeout, cfg.queryTimeout)
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			called = true
			return EmbeddingResult{
				Embedding:    []float32{1, 2, 3},
				PromptTokens: 5,
				TotalTokens:  10,
			}, nil
		},
	}

	adapter := &embedderAdapter{inner: mock}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if result.TotalTokens != 10 {
		t.Errorf("total tokens = %d, want 10", result.TotalTokens)
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	mock := &mockEmbedder{
		fn: func(_ context.Context, _ string) (EmbeddingResult, error) {
			return EmbeddingResult{}, errors.New("provider down")
		},
	}

	adapter := &embedderAdapter{inner: mock}
	if _, err := adapter.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestSearchPosts_Options(t *testing.T) {
	uc := &mockSearchUC{posts: []domain.PostMatch{
		{Post: domain.Post{ID: 1, PostID: "p1", Title: "Alignment"}, SimilarityScore: 0.91},
	}}
	c := &Client{searchSvc: uc}

	results, err := c.SearchPosts(context.Background(), "alignment", Limit(3), Threshold(0.85))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if uc.lastParams.Limit != 3 || uc.lastParams.Threshold != 0.85 {
		t.Errorf("params not forwarded: %+v", uc.lastParams)
	}
	if len(results) != 1 || results[0].Score != 0.91 {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestSearchPosts_Defaults(t *testing.T) {
	uc := &mockSearchUC{}
	c := &Client{searchSvc: uc}

	if _, err := c.SearchPosts(context.Background(), "q"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uc.lastParams.Limit != domain.DefaultLimit {
		t.Errorf("limit = %d, want %d", uc.lastParams.Limit, domain.DefaultLimit)
	}
	if uc.lastParams.Threshold != domain.DefaultThreshold {
		t.Errorf("threshold = %f, want %f", uc.lastParams.Threshold, domain.DefaultThreshold)
	}
}

func TestSearchPosts_EmptyQuery(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{}}

	_, err := c.SearchPosts(context.Background(), "")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestSearchComments_ErrorPassthrough(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{err: domain.ErrQueryFailed}}

	_, err := c.SearchComments(context.Background(), "q")
	if !errors.Is(err, ErrQueryFailed) {
		t.Fatalf("error = %v, want ErrQueryFailed", err)
	}
}

func TestHealth_Conversion(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"database":  healthuc.CheckOK,
			"embedding": healthuc.CheckError,
		},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["database"] != "ok" || h.Checks["embedding"] != "error" {
		t.Errorf("checks = %+v", h.Checks)
	}
}
