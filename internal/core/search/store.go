// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/taibuivan/loopdex/internal/core/item"
)

// Criteria is a normalised search handed to storage.
//
// Positive and Negative hold distinct tokens. An empty Rating admits every
// visible rating; unrated items are never eligible.
type Criteria struct {
	Positive []string
	Negative []string
	Rating   item.Rating
	Limit    int
	Offset   int
}

// Repository executes tag searches.
type Repository interface {
	// Search returns one page of matching items in key order and the total
	// number of matches.
	Search(context context.Context, criteria Criteria) ([]*item.Item, int, error)
}
