package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/feedsearch/internal/domain"
	healthuc "github.com/kailas-cloud/feedsearch/internal/usecase/health"
)

// --- Mocks ---

type mockSearch struct {
	posts      []domain.PostMatch
	comments   []domain.CommentMatch
	err        error
	lastParams domain.SearchParams
}

func (m *mockSearch) SearchPosts(_ context.Context, p domain.SearchParams) ([]domain.PostMatch, error) {
	m.lastParams = p
	return m.posts, m.err
}

func (m *mockSearch) SearchComments(_ context.Context, p domain.SearchParams) ([]domain.CommentMatch, error) {
	m.lastParams = p
	return m.comments, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(search *mockSearch, health *mockHealth) chi.Router {
	if health == nil {
		health = &mockHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}}
	}
	r := chi.NewRouter()
	NewServer(search, health, zap.NewNop()).RegisterRoutes(r)
	return r
}

func doSearch(t *testing.T, r chi.Router, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestSearchPosts_OK(t *testing.T) {
	search := &mockSearch{posts: []domain.PostMatch{
		{Post: domain.Post{ID: 1, PostID: "p1", Title: "Alignment"}, SimilarityScore: 0.95},
	}}
	r := newTestRouter(search, nil)

	rr := doSearch(t, r, "/search/posts", `{"query":"AI alignment research","limit":5,"threshold":0.8}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Results []domain.PostMatch `json:"results"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].SimilarityScore != 0.95 {
		t.Errorf("unexpected results: %+v", resp.Results)
	}

	if search.lastParams.Limit != 5 || search.lastParams.Threshold != 0.8 {
		t.Errorf("params not forwarded: %+v", search.lastParams)
	}
}

func TestSearchPosts_DefaultsApplied(t *testing.T) {
	search := &mockSearch{}
	r := newTestRouter(search, nil)

	rr := doSearch(t, r, "/search/posts", `{"query":"q"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if search.lastParams.Limit != domain.DefaultLimit {
		t.Errorf("limit: got %d, want %d", search.lastParams.Limit, domain.DefaultLimit)
	}
	if search.lastParams.Threshold != domain.DefaultThreshold {
		t.Errorf("threshold: got %f, want %f", search.lastParams.Threshold, domain.DefaultThreshold)
	}
}

func TestSearchPosts_EmptyResultsBody(t *testing.T) {
	r := newTestRouter(&mockSearch{}, nil)

	rr := doSearch(t, r, "/search/posts", `{"query":"q"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	// The results field must be a JSON array even when empty.
	if !strings.Contains(rr.Body.String(), `"results":[]`) {
		t.Errorf("expected empty results array, got %s", rr.Body.String())
	}
}

func TestSearchPosts_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":""}`},
		{"missing query", `{}`},
		{"zero limit", `{"query":"q","limit":0}`},
		{"negative limit", `{"query":"q","limit":-1}`},
		{"malformed json", `{"query":`},
		{"threshold type mismatch", `{"query":"q","threshold":"high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&mockSearch{}, nil)
			rr := doSearch(t, r, "/search/posts", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestSearchComments_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"embedding down", domain.ErrEmbeddingUnavailable, http.StatusBadGateway, CodeEmbeddingUnavailable},
		{"store down", domain.ErrQueryFailed, http.StatusInternalServerError, CodeQueryFailed},
		{"invalid request", domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&mockSearch{err: tt.err}, nil)
			rr := doSearch(t, r, "/search/comments", `{"query":"q"}`)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			if errResp := decodeError(t, rr); errResp.Code != tt.wantCode {
				t.Errorf("code: got %s, want %s", errResp.Code, tt.wantCode)
			}
		})
	}
}

func TestHealthCheck_Healthy(t *testing.T) {
	r := newTestRouter(&mockSearch{}, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status field: got %q, want %q", resp.Status, "healthy")
	}
}

func TestHealthCheck_Degraded_503(t *testing.T) {
	health := &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}
	r := newTestRouter(&mockSearch{}, health)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}
