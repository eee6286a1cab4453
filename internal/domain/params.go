package domain

import (
	"fmt"
	"math"
)

// Search parameter defaults.
const (
	DefaultLimit     = 10
	DefaultThreshold = 0.7
)

// SearchParams holds validated parameters for one search request.
// Limit caps the rows the store considers for ranking, applied before
// normalization, so fewer than Limit results may come back.
type SearchParams struct {
	Query     string
	Limit     int
	Threshold float64
}

// NewSearchParams validates inputs and applies defaults for absent
// limit/threshold. Threshold outside [-1, 1] is accepted (it only makes the
// filter trivially strict or trivially loose), but NaN is rejected.
func NewSearchParams(query string, limit *int, threshold *float64) (SearchParams, error) {
	if query == "" {
		return SearchParams{}, fmt.Errorf("%w: query must not be empty", ErrInvalidRequest)
	}

	p := SearchParams{
		Query:     query,
		Limit:     DefaultLimit,
		Threshold: DefaultThreshold,
	}

	if limit != nil {
		if *limit <= 0 {
			return SearchParams{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidRequest, *limit)
		}
		p.Limit = *limit
	}

	if threshold != nil {
		if math.IsNaN(*threshold) {
			return SearchParams{}, fmt.Errorf("%w: threshold must be a number", ErrInvalidRequest)
		}
		p.Threshold = *threshold
	}

	return p, nil
}
