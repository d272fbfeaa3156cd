// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"strings"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/pkg/tagname"
)

// ratingPrefix marks the rating filter token in a raw query.
const ratingPrefix = "rating:"

// Query is one tag search.
//
// Positive tokens must all match (AND); any Negative token excludes an item
// (OR). A token matches an item tag by canonical name or by one of its
// aliases. Page is zero-indexed.
type Query struct {
	Positive []string    `json:"positive"`
	Negative []string    `json:"negative"`
	Rating   item.Rating `json:"rating,omitempty"`
	SafeOnly bool        `json:"safe_only"`
	Page     int         `json:"page"`
	Limit    int         `json:"limit"`
}

// Result is one page of matches.
type Result struct {
	Items []*item.Item `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

/*
ParseQuery splits raw user input into a [Query].

Description: Tokens are separated by whitespace and lowercased. A leading '-'
negates a token. "rating:safe" and "rating:explicit" set the rating filter.
Anything that is not a well-formed tag token is dropped silently, so the
result only ever carries tokens the engine can match.

Parameters:
  - raw: string (e.g. "fox -nsfw rating:safe")

Returns:
  - Query: Tokens and rating; paging is left at zero values
*/
func ParseQuery(raw string) Query {
	query := Query{}

	for _, token := range strings.Fields(strings.ToLower(raw)) {
		if value, ok := strings.CutPrefix(token, ratingPrefix); ok {
			if rating := item.Rating(value); rating.Visible() {
				query.Rating = rating
			}
			continue
		}

		negated := false
		if body, ok := strings.CutPrefix(token, "-"); ok {
			negated = true
			token = body
		}

		if !tagname.Valid(token) {
			continue
		}

		if negated {
			query.Negative = append(query.Negative, token)
		} else {
			query.Positive = append(query.Positive, token)
		}
	}

	return query
}

// String renders the query back into token form.
func (query Query) String() string {
	tokens := make([]string, 0, len(query.Positive)+len(query.Negative)+1)
	tokens = append(tokens, query.Positive...)
	for _, token := range query.Negative {
		tokens = append(tokens, "-"+token)
	}
	if query.Rating.Visible() {
		tokens = append(tokens, ratingPrefix+string(query.Rating))
	}
	return strings.Join(tokens, " ")
}
