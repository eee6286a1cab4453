package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Corpus identifies one of the two searchable record sets.
type Corpus string

const (
	// CorpusPosts is the posts corpus.
	CorpusPosts Corpus = "posts"
	// CorpusComments is the comments corpus.
	CorpusComments Corpus = "comments"
)

// ScoreMode selects how the store computes and filters similarity.
type ScoreMode string

const (
	// ScoreModeDistance orders by raw cosine distance in the store and
	// leaves threshold filtering to the normalizer (similarity = 1 - d).
	ScoreModeDistance ScoreMode = "distance"
	// ScoreModeSimilarity computes similarity in the store and pushes both
	// ordering and threshold filtering into the query.
	ScoreModeSimilarity ScoreMode = "similarity"
)

// identPattern restricts table/column names that end up inside SQL text.
// Identifiers cannot be bound as parameters, so they must be validated.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CorpusSpec binds a corpus to its table, embedding column and score mode.
// Which column and mode apply is a per-corpus deployment decision.
type CorpusSpec struct {
	Corpus          Corpus
	Table           string
	EmbeddingColumn string
	Mode            ScoreMode
}

// Validate checks identifiers and the score mode.
func (s CorpusSpec) Validate() error {
	if !identPattern.MatchString(s.Table) {
		return fmt.Errorf("%s: invalid table name %q", s.Corpus, s.Table)
	}
	if !identPattern.MatchString(s.EmbeddingColumn) {
		return fmt.Errorf("%s: invalid embedding column %q", s.Corpus, s.EmbeddingColumn)
	}
	switch s.Mode {
	case ScoreModeDistance, ScoreModeSimilarity:
		return nil
	default:
		return fmt.Errorf("%s: invalid score mode %q", s.Corpus, s.Mode)
	}
}

// Post is a persisted post record. Ingestion is external; the service only
// reads. URL, Author and PostedAt are nullable in the source schema.
type Post struct {
	ID       int64      `json:"id"`
	PostID   string     `json:"post_id"`
	Title    string     `json:"title"`
	URL      *string    `json:"url"`
	Author   *string    `json:"author"`
	PostedAt *time.Time `json:"posted_at"`
}

// Comment is a persisted comment record.
type Comment struct {
	ID        int64      `json:"id"`
	CommentID string     `json:"comment_id"`
	PostID    string     `json:"post_id"`
	Content   *string    `json:"content"`
	Author    *string    `json:"author"`
	PostedAt  *time.Time `json:"posted_at"`
}

// ScoredPost is a candidate row returned by the store. Score is the raw
// value computed by the query (cosine distance or similarity depending on
// the corpus mode) and may be NULL for corrupted rows.
type ScoredPost struct {
	Post  Post
	Score *float64
}

// ScoredComment is a candidate comment row returned by the store.
type ScoredComment struct {
	Comment Comment
	Score   *float64
}

// PostMatch is a post with its normalized similarity score in [-1, 1].
type PostMatch struct {
	Post
	SimilarityScore float64 `json:"similarity_score"`
}

// CommentMatch is a comment with its normalized similarity score.
type CommentMatch struct {
	Comment
	SimilarityScore float64 `json:"similarity_score"`
}
