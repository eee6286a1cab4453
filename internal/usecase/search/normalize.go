package search

import (
	"math"

	"github.com/kailas-cloud/feedsearch/internal/domain"
)

// discardReason labels why a candidate row was dropped during normalization.
// An empty reason means the row is kept.
type discardReason string

const (
	discardNone           discardReason = ""
	discardNullScore      discardReason = "null_score"
	discardNaN            discardReason = "nan"
	discardOutOfRange     discardReason = "out_of_range"
	discardBelowThreshold discardReason = "below_threshold"
)

// normalizeScore converts a raw store value into a canonical similarity in
// [-1, 1], rounded to 6 decimal places. The store is an untrusted boundary:
// null scores (partial ingestion), NaN (corrupted embeddings) and
// out-of-range similarities (dimensionality skew) are dropped per row
// instead of failing the request. The checks run in both modes even when
// the store already filtered.
func normalizeScore(raw *float64, mode domain.ScoreMode, threshold float64) (float64, discardReason) {
	if raw == nil {
		return 0, discardNullScore
	}

	value := *raw
	if math.IsNaN(value) {
		return 0, discardNaN
	}

	var similarity float64
	switch mode {
	case domain.ScoreModeSimilarity:
		// The store computed similarity directly; anything outside [-1, 1]
		// cannot come from a cosine of well-formed vectors.
		if value < -1 || value > 1 {
			return 0, discardOutOfRange
		}
		similarity = value
	default:
		// The store returned a cosine distance (0 identical, 2 opposite).
		similarity = 1 - value
	}

	// Inclusive boundary: similarity == threshold is kept. Filtering runs on
	// the unrounded value so rounding cannot admit a sub-threshold row.
	if similarity < threshold {
		return 0, discardBelowThreshold
	}

	return math.Round(similarity*1e6) / 1e6, discardNone
}
