// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository is the storage contract of the tag catalog.
//
// Every method classifies its failures through dberr: a missing row is
// NOT_FOUND, anything unexpected is STORAGE_FAILURE.
type Repository interface {
	// FindByName loads a tag by canonical name.
	FindByName(context context.Context, name string) (*Tag, error)
	// FindByAlias loads the tag an alias points to.
	FindByAlias(context context.Context, alias string) (*Tag, error)
	// CreateIfAbsent inserts a tag and does nothing if the name exists.
	// It reports whether a row was inserted.
	CreateIfAbsent(context context.Context, name string, category Category) (bool, error)
	// UpdateCategory changes the category of an existing tag.
	UpdateCategory(context context.Context, name string, category Category) error
	// Delete removes a tag; aliases, implications and item links cascade.
	Delete(context context.Context, name string) error

	// ListAliases returns the aliases of a tag in name order.
	ListAliases(context context.Context, name string) ([]string, error)
	// AddAlias links alias to name. It reports false when the alias already
	// existed, whoever owns it.
	AddAlias(context context.Context, name, alias string) (bool, error)
	// RemoveAlias unlinks alias from name; a missing link is not an error.
	RemoveAlias(context context.Context, name, alias string) error

	// ListImplications returns the tags implied by name in name order.
	ListImplications(context context.Context, name string) ([]string, error)
	// AddImplication records that name implies implied; idempotent.
	AddImplication(context context.Context, name, implied string) error
	// RemoveImplication drops the implication; a missing row is not an error.
	RemoveImplication(context context.Context, name, implied string) error
}
