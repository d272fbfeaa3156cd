// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/validate"
	"github.com/taibuivan/loopdex/pkg/pagination"
	"github.com/taibuivan/loopdex/pkg/slice"
)

// Field names used in validation errors.
const (
	FieldTokens = "tokens"
	FieldRating = "rating"
)

// # Service Layer

// Service answers tag searches under the visibility gate.
type Service struct {
	repo     Repository
	safeOnly bool
	logger   *slog.Logger
}

// NewService constructs a new [Service].
//
// When safeOnly is set every query is restricted to safe items, whatever the
// caller asks for.
func NewService(repo Repository, safeOnly bool, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		safeOnly: safeOnly,
		logger:   logger,
	}
}

/*
Search returns one page of visible items matching query.

Description: Tokens are trimmed, blanks dropped and duplicates collapsed
before the query runs. Unrated items are never returned. Safe-only mode,
from the query or the instance, forces the safe rating; asking for explicit
items in that mode yields an empty page rather than an error.

Parameters:
  - context: context.Context
  - query: Query

Returns:
  - *Result: Matching items in key order with the total match count
  - error: VALIDATION_ERROR or STORAGE_FAILURE
*/
func (service *Service) Search(context context.Context, query Query) (*Result, error) {
	positive := cleanTokens(query.Positive)
	negative := cleanTokens(query.Negative)

	validator := &validate.Validator{}
	validator.MaxItems(FieldTokens, len(positive)+len(negative), constants.MaxSearchTokens)
	if query.Rating != "" {
		validator.OneOf(FieldRating, string(query.Rating), string(item.RatingSafe), string(item.RatingExplicit))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	params := pagination.New(query.Page, query.Limit)
	result := &Result{Items: []*item.Item{}, Page: params.Page, Limit: params.Limit}

	rating := query.Rating
	if query.SafeOnly || service.safeOnly {
		if rating == item.RatingExplicit {
			return result, nil
		}
		rating = item.RatingSafe
	}

	items, total, err := service.repo.Search(context, Criteria{
		Positive: positive,
		Negative: negative,
		Rating:   rating,
		Limit:    params.Limit,
		Offset:   params.Offset(),
	})
	if err != nil {
		return nil, err
	}

	service.logger.Debug("search_executed",
		slog.Any("positive", positive),
		slog.Any("negative", negative),
		slog.String("rating", string(rating)),
		slog.Int("page", params.Page),
		slog.Int("total", total),
	)

	result.Items = items
	result.Total = total
	return result, nil
}

// cleanTokens trims, drops blanks and dedupes while keeping first-seen order.
func cleanTokens(tokens []string) []string {
	trimmed := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			trimmed = append(trimmed, token)
		}
	}
	return slice.Unique(trimmed)
}
