package search

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/feedsearch/internal/domain"
)

func postsSpec() domain.CorpusSpec {
	return domain.CorpusSpec{
		Corpus:          domain.CorpusPosts,
		Table:           "fellowship_mvp",
		EmbeddingColumn: "title_embedding_gemini",
		Mode:            domain.ScoreModeSimilarity,
	}
}

func commentsSpec() domain.CorpusSpec {
	return domain.CorpusSpec{
		Corpus:          domain.CorpusComments,
		Table:           "fellowship_mvp_comments",
		EmbeddingColumn: "content_embedding",
		Mode:            domain.ScoreModeDistance,
	}
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	bad := postsSpec()
	bad.EmbeddingColumn = "col; DROP TABLE fellowship_mvp"

	if _, err := New(nil, bad, commentsSpec()); err == nil {
		t.Fatal("expected error for invalid embedding column")
	}
	if _, err := New(nil, postsSpec(), domain.CorpusSpec{}); err == nil {
		t.Fatal("expected error for empty comments spec")
	}
}

func TestBuildQuery_SimilarityMode(t *testing.T) {
	sql := buildQuery(postsSpec(), postColumns)

	for _, want := range []string{
		"1 - (title_embedding_gemini <=> $1::vector) AS similarity_score",
		"FROM fellowship_mvp",
		"WHERE title_embedding_gemini IS NOT NULL",
		"AND 1 - (title_embedding_gemini <=> $1::vector) >= $2",
		"ORDER BY similarity_score DESC",
		"LIMIT $3",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("similarity query missing %q:\n%s", want, sql)
		}
	}
}

func TestBuildQuery_DistanceMode(t *testing.T) {
	sql := buildQuery(commentsSpec(), commentColumns)

	for _, want := range []string{
		"(content_embedding <=> $1::vector) AS cosine_distance",
		"FROM fellowship_mvp_comments",
		"WHERE content_embedding IS NOT NULL",
		"ORDER BY cosine_distance ASC",
		"LIMIT $2",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("distance query missing %q:\n%s", want, sql)
		}
	}

	// The threshold must not be pushed into the store in distance mode.
	if strings.Contains(sql, ">=") {
		t.Errorf("distance query must not filter by threshold in-store:\n%s", sql)
	}
}

func TestQueryArgs(t *testing.T) {
	vec := []float32{0.1, 0.2}

	simArgs := queryArgs(postsSpec(), vec, 10, 0.7)
	if len(simArgs) != 3 {
		t.Fatalf("similarity mode: got %d args, want 3", len(simArgs))
	}
	if simArgs[0] != "[0.1,0.2]" || simArgs[1] != 0.7 || simArgs[2] != 10 {
		t.Errorf("similarity mode args: got %v", simArgs)
	}

	distArgs := queryArgs(commentsSpec(), vec, 10, 0.7)
	if len(distArgs) != 2 {
		t.Fatalf("distance mode: got %d args, want 2", len(distArgs))
	}
	if distArgs[0] != "[0.1,0.2]" || distArgs[1] != 10 {
		t.Errorf("distance mode args: got %v", distArgs)
	}
}

func TestBuildQuery_VectorNeverInlined(t *testing.T) {
	for _, spec := range []domain.CorpusSpec{postsSpec(), commentsSpec()} {
		sql := buildQuery(spec, postColumns)
		if strings.Contains(sql, "[") {
			t.Errorf("%s: vector literal leaked into SQL text:\n%s", spec.Corpus, sql)
		}
	}
}
