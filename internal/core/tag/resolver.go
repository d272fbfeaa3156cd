// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
)

// Resolver maps a user-supplied token to its canonical tag.
type Resolver struct {
	repo Repository
}

// NewResolver constructs a [Resolver].
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

/*
Resolve looks token up as an alias first, then as a canonical name.

Exactly one indirection is followed: an alias points at a canonical tag, never
at another alias. The token is expected to be normalised already.

Returns:
  - *Tag: The canonical tag
  - error: NOT_FOUND (keyed by token) when neither lookup matches
*/
func (resolver *Resolver) Resolve(context context.Context, token string) (*Tag, error) {
	tag, err := resolver.repo.FindByAlias(context, token)
	if err == nil {
		return tag, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	tag, err = resolver.repo.FindByName(context, token)
	if err == nil {
		return tag, nil
	}
	if dberr.IsNotFound(err) {
		return nil, apperr.NotFound("Tag").WithOp("resolve_tag").WithKey(token)
	}
	return nil, err
}
