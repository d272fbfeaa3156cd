// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/loopdex/internal/core/reconcile"
	"github.com/taibuivan/loopdex/internal/core/tag"
	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/lock"
	"github.com/taibuivan/loopdex/internal/platform/sec"
	"github.com/taibuivan/loopdex/internal/platform/validate"
	"github.com/taibuivan/loopdex/pkg/pagination"
	"github.com/taibuivan/loopdex/pkg/slice"
	"github.com/taibuivan/loopdex/pkg/tagname"
)

// TagEnsurer resolves or creates canonical tags. [tag.Service] satisfies it.
type TagEnsurer interface {
	Ensure(context context.Context, raw string) (*tag.Tag, error)
}

// maxTextLength caps free-form file metadata.
const maxTextLength = 255

// # Service Layer

// Service is the item catalog: ingestion, moderation, tag and source
// editing, and deletion.
type Service struct {
	repo   Repository
	tags   TagEnsurer
	locker lock.Locker
	logger *slog.Logger
}

// NewService constructs a new [Service].
//
// The locker serialises tag and source replacement per item.
func NewService(repo Repository, tags TagEnsurer, locker lock.Locker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tags:   tags,
		locker: locker,
		logger: logger,
	}
}

// # Ingestion

/*
Ingest records a new item submitted by uploaderID.

Description: Ingestion is idempotent per key. The first call stores the item
as unrated; later calls with the same key change nothing and return the stored
record, original uploader included.

Parameters:
  - context: context.Context
  - uploaderID: string (Opaque platform user ID)
  - properties: Properties (Platform-supplied attributes)

Returns:
  - *Item: The stored item
  - error: VALIDATION_ERROR or storage errors
*/
func (service *Service) Ingest(context context.Context, uploaderID string, properties Properties) (*Item, error) {
	properties.Key = strings.TrimSpace(properties.Key)
	uploaderID = strings.TrimSpace(uploaderID)

	validator := &validate.Validator{}
	validator.Required(FieldKey, properties.Key).MaxLen(FieldKey, properties.Key, constants.MaxItemKeyLength)
	validator.Required(FieldFileID, properties.FileID)
	validator.Required(FieldUploaderID, uploaderID)
	validator.NonNegative(FieldWidth, int64(properties.Width)).
		NonNegative(FieldHeight, int64(properties.Height)).
		NonNegative(FieldDuration, int64(properties.Duration)).
		NonNegative(FieldFileSize, properties.FileSize)
	validator.MaxLen(FieldFileName, properties.FileName, maxTextLength).
		MaxLen(FieldMimeType, properties.MimeType, maxTextLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	item := &Item{
		Key:        properties.Key,
		FileID:     properties.FileID,
		Width:      properties.Width,
		Height:     properties.Height,
		Duration:   properties.Duration,
		FileName:   properties.FileName,
		MimeType:   properties.MimeType,
		FileSize:   properties.FileSize,
		Preview:    properties.Preview,
		Rating:     RatingUnrated,
		UploaderID: uploaderID,
	}

	created, err := service.repo.Insert(context, item)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.Info("item_ingested",
			slog.String("item_key", item.Key),
			slog.String("uploader_id", uploaderID),
		)
	}

	return service.repo.FindByKey(context, item.Key)
}

// # Lookups

// Get loads one item by key.
func (service *Service) Get(context context.Context, key string) (*Item, error) {
	return service.repo.FindByKey(context, strings.TrimSpace(key))
}

// ListPending returns the moderation queue (unrated items, oldest first).
func (service *Service) ListPending(context context.Context, page, limit int) ([]*Item, int, error) {
	params := pagination.New(page, limit)
	return service.repo.ListPending(context, params.Limit, params.Offset())
}

// # Moderation

// SetRating changes the rating. Setting unrated hides the item from search.
func (service *Service) SetRating(context context.Context, key string, rating Rating) (*Item, error) {
	if err := validateRating(rating, Ratings...); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateRating(context, key, rating); err != nil {
		return nil, err
	}

	service.logger.Info("item_rating_changed",
		slog.String("item_key", key),
		slog.String("rating", string(rating)),
	)

	return service.repo.FindByKey(context, key)
}

// SetApprover records who approved the item. An empty ID clears it.
func (service *Service) SetApprover(context context.Context, key string, approverID string) (*Item, error) {
	var approver *string
	if trimmed := strings.TrimSpace(approverID); trimmed != "" {
		approver = &trimmed
	}

	if err := service.repo.UpdateApprover(context, key, approver); err != nil {
		return nil, err
	}

	return service.repo.FindByKey(context, key)
}

/*
Vet approves a pending item: it sets a visible rating and records the actor
as approver.

Returns:
  - *Item: The moderated item
  - error: FORBIDDEN unless actor is a moderator or administrator
*/
func (service *Service) Vet(context context.Context, actor sec.Actor, key string, rating Rating) (*Item, error) {
	if !actor.IsElevated() {
		return nil, apperr.Forbidden("Only moderators can vet items").WithOp("vet_item").WithKey(key)
	}

	if err := validateRating(rating, RatingSafe, RatingExplicit); err != nil {
		return nil, err
	}

	if err := service.repo.Moderate(context, key, rating, actor.ID); err != nil {
		return nil, err
	}

	service.logger.Info("item_vetted",
		slog.String("item_key", key),
		slog.String("rating", string(rating)),
		slog.String("approver_id", actor.ID),
	)

	return service.repo.FindByKey(context, key)
}

// # Tags

// ListTags returns the canonical tags of an item.
func (service *Service) ListTags(context context.Context, key string) ([]*tag.Tag, error) {
	if _, err := service.repo.FindByKey(context, key); err != nil {
		return nil, err
	}
	return service.repo.ListTags(context, key)
}

/*
ReplaceTags makes the tag set of an item equal to names.

Description: Every name is normalised and resolved through aliases, creating
missing tags on the fly. The resulting canonical set is reconciled against the
stored links: only the difference is inserted or deleted. Replacements of the
same item are serialised by the item lock.

Parameters:
  - context: context.Context
  - key: string (Item key)
  - names: []string (Complete desired tag list, raw user input)

Returns:
  - []*tag.Tag: The tags stored after the update
  - error: VALIDATION_ERROR, NOT_FOUND, CONFLICT (lock busy), or *reconcile.PhaseError
*/
func (service *Service) ReplaceTags(context context.Context, key string, names []string) ([]*tag.Tag, error) {
	if err := validateTagNames(names); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindByKey(context, key); err != nil {
		return nil, err
	}

	unlock, err := service.locker.Acquire(context, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	desired := make([]string, 0, len(names))
	for _, raw := range names {
		canonical, err := service.tags.Ensure(context, raw)
		if err != nil {
			return nil, err
		}
		desired = append(desired, canonical.Name)
	}

	stored, err := service.repo.ListTags(context, key)
	if err != nil {
		return nil, err
	}
	current := slice.Map(stored, func(t *tag.Tag) string { return t.Name })

	plan, err := reconcile.Reconcile(context, current, desired, service.tagOps(key))
	if err != nil {
		service.logger.Warn("item_tags_partially_replaced",
			slog.String("item_key", key),
			slog.Any("error", err),
		)
		return nil, err
	}
	if plan.Empty() {
		return stored, nil
	}

	service.logger.Info("item_tags_replaced",
		slog.String("item_key", key),
		slog.Any("added", plan.Add),
		slog.Any("removed", plan.Remove),
	)

	return service.repo.ListTags(context, key)
}

// # Sources

// ListSources returns the source URLs of an item.
func (service *Service) ListSources(context context.Context, key string) ([]string, error) {
	if _, err := service.repo.FindByKey(context, key); err != nil {
		return nil, err
	}
	return service.repo.ListSources(context, key)
}

// ReplaceSources makes the source set of an item equal to urls.
// URLs are trimmed, blanks dropped and duplicates collapsed.
func (service *Service) ReplaceSources(context context.Context, key string, urls []string) ([]string, error) {
	desired, err := normalizeSources(urls)
	if err != nil {
		return nil, err
	}

	if _, err := service.repo.FindByKey(context, key); err != nil {
		return nil, err
	}

	unlock, err := service.locker.Acquire(context, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := service.repo.ListSources(context, key)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.Reconcile(context, current, desired, service.sourceOps(key))
	if err != nil {
		return nil, err
	}
	if plan.Empty() {
		return current, nil
	}

	service.logger.Info("item_sources_replaced",
		slog.String("item_key", key),
		slog.Int("added", len(plan.Add)),
		slog.Int("removed", len(plan.Remove)),
	)

	return service.repo.ListSources(context, key)
}

// # Deletion

/*
Delete removes an item with its tag links and sources.

The uploader may delete their own item while it is still unrated; moderators
and administrators may delete any item. Everyone else gets FORBIDDEN.
*/
func (service *Service) Delete(context context.Context, actor sec.Actor, key string) error {
	item, err := service.repo.FindByKey(context, key)
	if err != nil {
		return err
	}

	ownPending := actor.ID != "" && actor.ID == item.UploaderID && item.Rating == RatingUnrated
	if !actor.IsElevated() && !ownPending {
		return apperr.Forbidden("You cannot delete this item").WithOp("delete_item").WithKey(key)
	}

	if err := service.repo.Delete(context, key); err != nil {
		return err
	}

	service.logger.Info("item_deleted",
		slog.String("item_key", key),
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
	)
	return nil
}

// # Reconcile Primitives

func (service *Service) tagOps(key string) reconcile.Ops[string] {
	return reconcile.Ops[string]{
		Add: func(ctx context.Context, name string) error {
			return service.repo.AddTag(ctx, key, name)
		},
		Remove: func(ctx context.Context, name string) error {
			return service.repo.RemoveTag(ctx, key, name)
		},
		Concurrency: constants.ReconcileConcurrency,
	}
}

func (service *Service) sourceOps(key string) reconcile.Ops[string] {
	return reconcile.Ops[string]{
		Add: func(ctx context.Context, url string) error {
			return service.repo.AddSource(ctx, key, url)
		},
		Remove: func(ctx context.Context, url string) error {
			return service.repo.RemoveSource(ctx, key, url)
		},
		Concurrency: constants.ReconcileConcurrency,
	}
}

// # Helpers

func validateRating(rating Rating, allowed ...Rating) error {
	validator := &validate.Validator{}
	validator.OneOf(FieldRating, string(rating), slice.Map(allowed, func(r Rating) string { return string(r) })...)
	return validator.Err()
}

// validateTagNames reports every malformed name before any tag is created.
// An oversized list is rejected on its length alone.
func validateTagNames(names []string) error {
	validator := &validate.Validator{}
	validator.MaxItems(FieldTags, len(names), constants.MaxTagsPerItem)
	if validator.HasErrors() {
		return validator.Err()
	}

	for _, raw := range names {
		if !tagname.Valid(tagname.Normalize(raw)) {
			validator.Custom(FieldTags, true, fmt.Sprintf("%q is not a valid tag name", raw))
		}
	}
	return validator.Err()
}

// normalizeSources trims, drops blanks, dedupes and validates source URLs.
func normalizeSources(urls []string) ([]string, error) {
	trimmed := make([]string, 0, len(urls))
	for _, raw := range urls {
		if url := strings.TrimSpace(raw); url != "" {
			trimmed = append(trimmed, url)
		}
	}
	sources := slice.Unique(trimmed)

	validator := &validate.Validator{}
	validator.MaxItems(FieldSources, len(sources), constants.MaxSourcesPerItem)

	// An oversized list is rejected on its length alone.
	if !validator.HasErrors() {
		for _, url := range sources {
			validator.MaxLen(FieldSources, url, constants.MaxSourceURLLength).HTTPURL(FieldSources, url)
		}
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return sources, nil
}
