// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item

import (
	"context"

	"github.com/taibuivan/loopdex/internal/core/tag"
)

// Repository is the storage contract of the item catalog.
type Repository interface {
	// Insert stores a new item and does nothing if the key exists.
	// It reports whether a row was inserted.
	Insert(context context.Context, item *Item) (bool, error)
	// FindByKey loads one item.
	FindByKey(context context.Context, key string) (*Item, error)
	// ListPending returns unrated items oldest first, plus their total count.
	ListPending(context context.Context, limit, offset int) ([]*Item, int, error)
	// UpdateRating sets the rating; unrated stores NULL.
	UpdateRating(context context.Context, key string, rating Rating) error
	// UpdateApprover sets or clears the approver.
	UpdateApprover(context context.Context, key string, approverID *string) error
	// Moderate sets rating and approver in one statement.
	Moderate(context context.Context, key string, rating Rating, approverID string) error
	// Delete removes the item; tag links and sources cascade.
	Delete(context context.Context, key string) error

	// ListTags returns the canonical tags of an item in name order.
	ListTags(context context.Context, key string) ([]*tag.Tag, error)
	// AddTag links a canonical tag; an existing link is not an error.
	AddTag(context context.Context, key, tagName string) error
	// RemoveTag unlinks a tag; a missing link is not an error.
	RemoveTag(context context.Context, key, tagName string) error

	// ListSources returns the source URLs of an item in URL order.
	ListSources(context context.Context, key string) ([]string, error)
	// AddSource attaches a URL; an existing row is not an error.
	AddSource(context context.Context, key, url string) error
	// RemoveSource detaches a URL; a missing row is not an error.
	RemoveSource(context context.Context, key, url string) error
}
