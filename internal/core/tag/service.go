// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/loopdex/internal/core/reconcile"
	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
	"github.com/taibuivan/loopdex/internal/platform/validate"
	"github.com/taibuivan/loopdex/pkg/slice"
	"github.com/taibuivan/loopdex/pkg/tagname"
)

// # Service Layer

// Service is the tag catalog: it creates, classifies and deletes tags and
// curates their aliases and implications.
type Service struct {
	repo     Repository
	resolver *Resolver
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: NewResolver(repo),
		logger:   logger,
	}
}

// Resolver exposes the alias resolver backing this service.
func (service *Service) Resolver() *Resolver {
	return service.resolver
}

// # Lookups

// Get normalises raw and resolves it through aliases to the canonical tag.
func (service *Service) Get(context context.Context, raw string) (*Tag, error) {
	name, err := canonicalName(FieldName, raw)
	if err != nil {
		return nil, err
	}
	return service.resolver.Resolve(context, name)
}

/*
Ensure returns the canonical tag for raw, creating it on first reference.

Description: The name is normalised and resolved (aliases included). A missing
tag is inserted with category "general" using insert-if-absent, then resolved
again, so concurrent first references converge on one row without locking.

Parameters:
  - context: context.Context
  - raw: string (User-entered tag name)

Returns:
  - *Tag: The existing or newly created canonical tag
  - error: VALIDATION_ERROR for malformed names, storage errors otherwise
*/
func (service *Service) Ensure(context context.Context, raw string) (*Tag, error) {
	name, err := canonicalName(FieldName, raw)
	if err != nil {
		return nil, err
	}

	tag, err := service.resolver.Resolve(context, name)
	if err == nil {
		return tag, nil
	}
	if !dberr.IsNotFound(err) {
		return nil, err
	}

	// A concurrent creator winning the race is success for us too.
	created, err := service.repo.CreateIfAbsent(context, name, CategoryGeneral)
	if err != nil && !dberr.IsConflict(err) {
		return nil, err
	}
	if created {
		service.logger.Info("tag_created", slog.String("tag", name))
	}

	return service.resolver.Resolve(context, name)
}

// # Management

// SetCategory reclassifies a tag. Aliases resolve to their canonical tag.
func (service *Service) SetCategory(context context.Context, raw string, category Category) (*Tag, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldCategory, string(category), slice.Map(Categories, func(c Category) string { return string(c) })...)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	tag, err := service.Get(context, raw)
	if err != nil {
		return nil, err
	}

	if tag.Category == category {
		return tag, nil
	}

	if err := service.repo.UpdateCategory(context, tag.Name, category); err != nil {
		return nil, err
	}

	service.logger.Info("tag_category_changed",
		slog.String("tag", tag.Name),
		slog.String("from", string(tag.Category)),
		slog.String("to", string(category)),
	)

	tag.Category = category
	return tag, nil
}

// Delete removes a tag by canonical name. Item links, aliases and implications
// referencing it are removed with it. Aliases are not resolved here.
func (service *Service) Delete(context context.Context, raw string) error {
	name, err := canonicalName(FieldName, raw)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, name); err != nil {
		return err
	}

	service.logger.Info("tag_deleted", slog.String("tag", name))
	return nil
}

// # Aliases

// ListAliases returns the aliases of the tag raw resolves to.
func (service *Service) ListAliases(context context.Context, raw string) ([]string, error) {
	tag, err := service.Get(context, raw)
	if err != nil {
		return nil, err
	}
	return service.repo.ListAliases(context, tag.Name)
}

/*
ReplaceAliases makes the alias set of a tag equal to desired.

Description: Desired aliases are normalised and reconciled against the stored
set. An alias that equals any canonical tag name, or that already belongs to a
different tag, is a CONFLICT keyed by the alias. An alias the tag already owns
is left untouched.

Returns:
  - []string: The stored aliases after the update
  - error: VALIDATION_ERROR, CONFLICT, or a *reconcile.PhaseError
*/
func (service *Service) ReplaceAliases(context context.Context, raw string, desired []string) ([]string, error) {
	tag, err := service.Get(context, raw)
	if err != nil {
		return nil, err
	}

	aliases, err := canonicalNames(FieldAliases, desired)
	if err != nil {
		return nil, err
	}

	current, err := service.repo.ListAliases(context, tag.Name)
	if err != nil {
		return nil, err
	}

	plan := reconcile.Diff(current, aliases)
	if plan.Empty() {
		return current, nil
	}

	// Reject every clash before writing anything.
	for _, alias := range plan.Add {
		if err := service.checkAliasFree(context, tag.Name, alias); err != nil {
			return nil, err
		}
	}

	err = reconcile.Apply(context, plan, service.aliasOps(tag.Name))
	if err != nil {
		return nil, err
	}

	service.logger.Info("tag_aliases_replaced",
		slog.String("tag", tag.Name),
		slog.Int("added", len(plan.Add)),
		slog.Int("removed", len(plan.Remove)),
	)

	return service.repo.ListAliases(context, tag.Name)
}

// checkAliasFree rejects an alias that is a canonical name or owned elsewhere.
func (service *Service) checkAliasFree(context context.Context, owner, alias string) error {
	if alias == owner {
		return aliasConflict(alias, "An alias cannot equal its own tag name")
	}

	_, err := service.repo.FindByName(context, alias)
	if err == nil {
		return aliasConflict(alias, fmt.Sprintf("%q is already a tag name", alias))
	}
	if !dberr.IsNotFound(err) {
		return err
	}

	return service.checkAliasOwner(context, owner, alias)
}

// checkAliasOwner passes when alias is unowned or owned by owner.
func (service *Service) checkAliasOwner(context context.Context, owner, alias string) error {
	existing, err := service.repo.FindByAlias(context, alias)
	if dberr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Name != owner {
		return aliasConflict(alias, fmt.Sprintf("%q is already an alias of %q", alias, existing.Name))
	}
	return nil
}

func aliasConflict(alias, message string) error {
	return apperr.Conflict(message).WithOp("add_tag_alias").WithKey(alias)
}

// # Implications

// ListImplications returns the tags implied by the tag raw resolves to.
func (service *Service) ListImplications(context context.Context, raw string) ([]string, error) {
	tag, err := service.Get(context, raw)
	if err != nil {
		return nil, err
	}
	return service.repo.ListImplications(context, tag.Name)
}

/*
ReplaceImplications makes the implied-tag set of a tag equal to desired.

Implied tags are ensured (created on first reference) and stored by canonical
name. Implications are curation data only: search and tagging never expand them.
*/
func (service *Service) ReplaceImplications(context context.Context, raw string, desired []string) ([]string, error) {
	tag, err := service.Get(context, raw)
	if err != nil {
		return nil, err
	}

	if _, err := canonicalNames(FieldImplications, desired); err != nil {
		return nil, err
	}

	implied := make([]string, 0, len(desired))
	for _, name := range desired {
		target, err := service.Ensure(context, name)
		if err != nil {
			return nil, err
		}
		if target.Name == tag.Name {
			return nil, validate.RequiredError(FieldImplications, "A tag cannot imply itself")
		}
		implied = append(implied, target.Name)
	}

	current, err := service.repo.ListImplications(context, tag.Name)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.Reconcile(context, current, implied, service.implicationOps(tag.Name))
	if err != nil {
		return nil, err
	}
	if plan.Empty() {
		return current, nil
	}

	service.logger.Info("tag_implications_replaced",
		slog.String("tag", tag.Name),
		slog.Int("added", len(plan.Add)),
		slog.Int("removed", len(plan.Remove)),
	)

	return service.repo.ListImplications(context, tag.Name)
}

// # Helpers

// canonicalName normalises raw and validates the result.
func canonicalName(field, raw string) (string, error) {
	name := tagname.Normalize(raw)
	if !tagname.Valid(name) {
		return "", validate.RequiredError(field,
			fmt.Sprintf("%q is not a valid tag name (letters, digits, '_' or ':', starting with a letter, at most %d characters)", raw, tagname.MaxLength))
	}
	return name, nil
}

// canonicalNames normalises every entry, reporting all invalid ones at once.
func canonicalNames(field string, raws []string) ([]string, error) {
	validator := &validate.Validator{}
	names := make([]string, 0, len(raws))

	for _, raw := range raws {
		name := tagname.Normalize(raw)
		if !tagname.Valid(name) {
			validator.Custom(field, true, fmt.Sprintf("%q is not a valid tag name", raw))
			continue
		}
		names = append(names, name)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return slice.Unique(names), nil
}

// # Reconcile Primitives

// aliasOps links and unlinks aliases of name. An insert that lost a race is
// accepted only when the alias ended up on the same tag.
func (service *Service) aliasOps(name string) reconcile.Ops[string] {
	return reconcile.Ops[string]{
		Add: func(ctx context.Context, alias string) error {
			inserted, err := service.repo.AddAlias(ctx, name, alias)
			if err != nil || inserted {
				return err
			}
			return service.checkAliasOwner(ctx, name, alias)
		},
		Remove: func(ctx context.Context, alias string) error {
			return service.repo.RemoveAlias(ctx, name, alias)
		},
		Concurrency: constants.ReconcileConcurrency,
	}
}

func (service *Service) implicationOps(name string) reconcile.Ops[string] {
	return reconcile.Ops[string]{
		Add: func(ctx context.Context, implied string) error {
			return service.repo.AddImplication(ctx, name, implied)
		},
		Remove: func(ctx context.Context, implied string) error {
			return service.repo.RemoveImplication(ctx, name, implied)
		},
		Concurrency: constants.ReconcileConcurrency,
	}
}
