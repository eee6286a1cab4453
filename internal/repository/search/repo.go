// Package search implements the similarity query engine against the
// pgvector-backed corpus tables.
package search

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/feedsearch/internal/db/postgres"
	"github.com/kailas-cloud/feedsearch/internal/domain"
)

// querier is the consumer interface over the connection pool.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo implements usecase/search.Repository on Postgres + pgvector.
type Repo struct {
	db       querier
	posts    domain.CorpusSpec
	comments domain.CorpusSpec

	postsSQL    string
	commentsSQL string
}

// New creates a search repository. Corpus specs must be pre-validated;
// their identifiers end up inside SQL text.
func New(db querier, posts, comments domain.CorpusSpec) (*Repo, error) {
	if err := posts.Validate(); err != nil {
		return nil, fmt.Errorf("posts spec: %w", err)
	}
	if err := comments.Validate(); err != nil {
		return nil, fmt.Errorf("comments spec: %w", err)
	}

	return &Repo{
		db:          db,
		posts:       posts,
		comments:    comments,
		postsSQL:    buildQuery(posts, postColumns),
		commentsSQL: buildQuery(comments, commentColumns),
	}, nil
}

// Display columns per corpus; the score expression is appended by buildQuery.
const (
	postColumns    = "id, post_id, title, page_url, author_display_name, posted_at"
	commentColumns = "id, comment_id, post_id, markdown_content, author_display_name, posted_at"
)

// buildQuery constructs the similarity query for a corpus. Two score modes
// are retained as distinct behaviors:
//
//   - distance: order by raw cosine distance ascending; the threshold is
//     applied post-hoc by the normalizer, so the exact similarity of every
//     candidate is observable.
//   - similarity: compute similarity in the store and push both ordering
//     and the threshold predicate into the query, reducing rows transferred.
//
// Only rows with a non-null embedding are eligible, and LIMIT caps the rows
// leaving the store in both modes. The vector is bound as $1, never spliced
// into the SQL text.
func buildQuery(spec domain.CorpusSpec, selectColumns string) string {
	if spec.Mode == domain.ScoreModeSimilarity {
		return fmt.Sprintf(`SELECT %s,
       1 - (%s <=> $1::vector) AS similarity_score
FROM %s
WHERE %s IS NOT NULL
  AND 1 - (%s <=> $1::vector) >= $2
ORDER BY similarity_score DESC
LIMIT $3`,
			selectColumns,
			spec.EmbeddingColumn, spec.Table, spec.EmbeddingColumn, spec.EmbeddingColumn)
	}

	return fmt.Sprintf(`SELECT %s,
       (%s <=> $1::vector) AS cosine_distance
FROM %s
WHERE %s IS NOT NULL
ORDER BY cosine_distance ASC
LIMIT $2`,
		selectColumns,
		spec.EmbeddingColumn, spec.Table, spec.EmbeddingColumn)
}

// queryArgs binds the serialized vector plus mode-dependent parameters.
func queryArgs(spec domain.CorpusSpec, vector []float32, limit int, threshold float64) []any {
	literal := postgres.VectorLiteral(vector)
	if spec.Mode == domain.ScoreModeSimilarity {
		return []any{literal, threshold, limit}
	}
	return []any{literal, limit}
}

// SearchPosts returns up to limit candidate post rows ordered by the store.
func (r *Repo) SearchPosts(
	ctx context.Context, vector []float32, limit int, threshold float64,
) ([]domain.ScoredPost, error) {
	rows, err := r.db.Query(ctx, r.postsSQL, queryArgs(r.posts, vector, limit, threshold)...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %s: %w", err, domain.ErrQueryFailed)
	}
	defer rows.Close()

	var out []domain.ScoredPost
	for rows.Next() {
		var row domain.ScoredPost
		if err := rows.Scan(
			&row.Post.ID, &row.Post.PostID, &row.Post.Title,
			&row.Post.URL, &row.Post.Author, &row.Post.PostedAt,
			&row.Score,
		); err != nil {
			return nil, fmt.Errorf("scan post row: %s: %w", err, domain.ErrQueryFailed)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read post rows: %s: %w", err, domain.ErrQueryFailed)
	}

	return out, nil
}

// SearchComments returns up to limit candidate comment rows ordered by the store.
func (r *Repo) SearchComments(
	ctx context.Context, vector []float32, limit int, threshold float64,
) ([]domain.ScoredComment, error) {
	rows, err := r.db.Query(ctx, r.commentsSQL, queryArgs(r.comments, vector, limit, threshold)...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %s: %w", err, domain.ErrQueryFailed)
	}
	defer rows.Close()

	var out []domain.ScoredComment
	for rows.Next() {
		var row domain.ScoredComment
		if err := rows.Scan(
			&row.Comment.ID, &row.Comment.CommentID, &row.Comment.PostID,
			&row.Comment.Content, &row.Comment.Author, &row.Comment.PostedAt,
			&row.Score,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %s: %w", err, domain.ErrQueryFailed)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read comment rows: %s: %w", err, domain.ErrQueryFailed)
	}

	return out, nil
}
