// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item_test

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/core/tag"
	"github.com/taibuivan/loopdex/internal/platform/apperr"
	"github.com/taibuivan/loopdex/internal/platform/constants"
	"github.com/taibuivan/loopdex/internal/platform/lock"
	"github.com/taibuivan/loopdex/internal/platform/sec"
	"github.com/taibuivan/loopdex/internal/platform/sqlite"
	"github.com/taibuivan/loopdex/pkg/slice"
)

var (
	uploader  = sec.Actor{ID: "u-1", Role: sec.RoleMember}
	stranger  = sec.Actor{ID: "u-2", Role: sec.RoleMember}
	moderator = sec.Actor{ID: "m-1", Role: sec.RoleModerator}
)

type fixture struct {
	items  *item.Service
	tags   *tag.Service
	locker *lock.LocalLocker
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db, err := sqlite.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	logger := slog.New(slog.DiscardHandler)
	tags := tag.NewService(tag.NewSQLiteRepository(db), logger)
	locker := lock.NewLocalLocker(20 * time.Millisecond)

	return fixture{
		items:  item.NewService(item.NewSQLiteRepository(db), tags, locker, logger),
		tags:   tags,
		locker: locker,
	}
}

func properties(key string) item.Properties {
	return item.Properties{
		Key:      key,
		FileID:   "file-" + key,
		Width:    320,
		Height:   240,
		Duration: 3,
		MimeType: "video/mp4",
		FileSize: 1024,
		Preview:  item.Preview{FileID: "thumb-" + key, Width: 90, Height: 90},
	}
}

func ingest(t *testing.T, f fixture, key string) *item.Item {
	t.Helper()
	stored, err := f.items.Ingest(context.Background(), uploader.ID, properties(key))
	require.NoError(t, err)
	return stored
}

func tagNames(tags []*tag.Tag) []string {
	return slice.Map(tags, func(t *tag.Tag) string { return t.Name })
}

// # Ingestion

/*
TestIngest_IsIdempotentPerKey keeps the first record and its uploader.
*/
func TestIngest_IsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.items.Ingest(ctx, uploader.ID, properties("k1"))
	require.NoError(t, err)
	assert.Equal(t, item.RatingUnrated, first.Rating)
	assert.Equal(t, uploader.ID, first.UploaderID)
	assert.Nil(t, first.ApproverID)
	assert.Equal(t, "thumb-k1", first.Preview.FileID)

	changed := properties("k1")
	changed.FileID = "other"
	second, err := f.items.Ingest(ctx, stranger.ID, changed)
	require.NoError(t, err)
	assert.Equal(t, uploader.ID, second.UploaderID)
	assert.Equal(t, "file-k1", second.FileID)
}

/*
TestIngest_Validation rejects missing keys and negative dimensions.
*/
func TestIngest_Validation(t *testing.T) {
	f := newFixture(t)

	missingKey := properties("")
	_, err := f.items.Ingest(context.Background(), uploader.ID, missingKey)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	negative := properties("k1")
	negative.Width = -1
	_, err = f.items.Ingest(context.Background(), uploader.ID, negative)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = f.items.Ingest(context.Background(), " ", properties("k2"))
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestGet_NotFoundCarriesKey(t *testing.T) {
	f := newFixture(t)

	_, err := f.items.Get(context.Background(), "missing")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "missing", ae.Key)
}

// # Moderation

/*
TestVet_ElevatedOnly lets moderators rate and records them as approver.
*/
func TestVet_ElevatedOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	_, err := f.items.Vet(ctx, uploader, "k1", item.RatingSafe)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	_, err = f.items.Vet(ctx, moderator, "k1", item.RatingUnrated)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	vetted, err := f.items.Vet(ctx, moderator, "k1", item.RatingExplicit)
	require.NoError(t, err)
	assert.Equal(t, item.RatingExplicit, vetted.Rating)
	require.NotNil(t, vetted.ApproverID)
	assert.Equal(t, moderator.ID, *vetted.ApproverID)

	_, err = f.items.Vet(ctx, moderator, "missing", item.RatingSafe)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestSetRating_BackToUnrated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	rated, err := f.items.SetRating(ctx, "k1", item.RatingSafe)
	require.NoError(t, err)
	assert.Equal(t, item.RatingSafe, rated.Rating)

	unrated, err := f.items.SetRating(ctx, "k1", item.RatingUnrated)
	require.NoError(t, err)
	assert.Equal(t, item.RatingUnrated, unrated.Rating)

	_, err = f.items.SetRating(ctx, "k1", item.Rating("nsfw"))
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

func TestSetApprover_SetAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	approved, err := f.items.SetApprover(ctx, "k1", "m-9")
	require.NoError(t, err)
	require.NotNil(t, approved.ApproverID)
	assert.Equal(t, "m-9", *approved.ApproverID)

	cleared, err := f.items.SetApprover(ctx, "k1", "")
	require.NoError(t, err)
	assert.Nil(t, cleared.ApproverID)
}

/*
TestListPending_OldestFirstZeroIndexed pages through the unrated queue.
*/
func TestListPending_OldestFirstZeroIndexed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, key := range []string{"a", "b", "c"} {
		ingest(t, f, key)
	}
	_, err := f.items.Vet(ctx, moderator, "b", item.RatingSafe)
	require.NoError(t, err)

	page0, total, err := f.items.ListPending(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page0, 1)
	assert.Equal(t, "a", page0[0].Key)

	page1, _, err := f.items.ListPending(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page1, 1)
	assert.Equal(t, "c", page1[0].Key)
}

// # Tags

/*
TestReplaceTags_ReconcilesDifference moves {a, b} to {a, c}.
*/
func TestReplaceTags_ReconcilesDifference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	stored, err := f.items.ReplaceTags(ctx, "k1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tagNames(stored))

	a, err := f.tags.Get(ctx, "a")
	require.NoError(t, err)

	stored, err = f.items.ReplaceTags(ctx, "k1", []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, tagNames(stored))

	// "a" was kept, not recreated.
	assert.Equal(t, a.CreatedAt.Unix(), stored[0].CreatedAt.Unix())

	stored, err = f.items.ReplaceTags(ctx, "k1", []string{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

// recordingRepository logs every tag link write that reaches storage.
type recordingRepository struct {
	item.Repository

	mu     sync.Mutex
	writes []string
}

func (r *recordingRepository) AddTag(ctx context.Context, key, tagName string) error {
	r.record("insert " + tagName)
	return r.Repository.AddTag(ctx, key, tagName)
}

func (r *recordingRepository) RemoveTag(ctx context.Context, key, tagName string) error {
	r.record("delete " + tagName)
	return r.Repository.RemoveTag(ctx, key, tagName)
}

func (r *recordingRepository) record(write string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, write)
}

/*
TestReplaceTags_IssuesMinimalWrites replaces {a, b} with {a, c} using exactly
one insert and one delete.
*/
func TestReplaceTags_IssuesMinimalWrites(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	logger := slog.New(slog.DiscardHandler)
	tags := tag.NewService(tag.NewSQLiteRepository(db), logger)
	repo := &recordingRepository{Repository: item.NewSQLiteRepository(db)}
	items := item.NewService(repo, tags, lock.NewLocalLocker(20*time.Millisecond), logger)

	_, err = items.Ingest(ctx, uploader.ID, properties("y"))
	require.NoError(t, err)
	_, err = items.ReplaceTags(ctx, "y", []string{"a", "b"})
	require.NoError(t, err)

	repo.writes = nil
	stored, err := items.ReplaceTags(ctx, "y", []string{"a", "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, tagNames(stored))
	assert.Equal(t, []string{"insert c", "delete b"}, repo.writes)

	sources, err := items.ListSources(ctx, "y")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

/*
TestReplaceTags_ResolvesAliasesAndDedupes stores only canonical names.
*/
func TestReplaceTags_ResolvesAliasesAndDedupes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	_, err := f.tags.Ensure(ctx, "fox")
	require.NoError(t, err)
	_, err = f.tags.ReplaceAliases(ctx, "fox", []string{"foxes"})
	require.NoError(t, err)

	stored, err := f.items.ReplaceTags(ctx, "k1", []string{"Foxes", "fox", "Red Panda"})
	require.NoError(t, err)
	assert.Equal(t, []string{"fox", "red_panda"}, tagNames(stored))
	assert.Equal(t, tag.CategoryGeneral, stored[1].Category)
}

/*
TestReplaceTags_InvalidNameChangesNothing validates before any write.
*/
func TestReplaceTags_InvalidNameChangesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	_, err := f.items.ReplaceTags(ctx, "k1", []string{"good", "9bad"})
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	_, err = f.tags.Get(ctx, "good")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = f.items.ReplaceTags(ctx, "missing", []string{"good"})
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestReplaceTags_BusyLock returns CONFLICT keyed by the item.
*/
func TestReplaceTags_BusyLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	unlock, err := f.locker.Acquire(ctx, "k1")
	require.NoError(t, err)

	_, err = f.items.ReplaceTags(ctx, "k1", []string{"a"})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeConflict, ae.Code)
	assert.Equal(t, "k1", ae.Key)

	unlock()
	_, err = f.items.ReplaceTags(ctx, "k1", []string{"a"})
	assert.NoError(t, err)
}

/*
TestReplaceTags_ConcurrentReplacementsSerialise ends on one of the requested sets.
*/
func TestReplaceTags_ConcurrentReplacementsSerialise(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	logger := slog.New(slog.DiscardHandler)
	tags := tag.NewService(tag.NewSQLiteRepository(db), logger)
	items := item.NewService(item.NewSQLiteRepository(db), tags, lock.NewLocalLocker(5*time.Second), logger)

	_, err = items.Ingest(ctx, uploader.ID, properties("k1"))
	require.NoError(t, err)

	sets := [][]string{{"a", "b"}, {"c", "d"}}
	var wg sync.WaitGroup
	for _, set := range sets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := items.ReplaceTags(ctx, "k1", set)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := items.ListTags(ctx, "k1")
	require.NoError(t, err)
	assert.Contains(t, sets, tagNames(stored))
}

// # Sources

/*
TestReplaceSources_TrimsDedupesAndReconciles stores the cleaned set.
*/
func TestReplaceSources_TrimsDedupesAndReconciles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	stored, err := f.items.ReplaceSources(ctx, "k1", []string{
		" https://b.example/1 ", "https://a.example/1", "https://b.example/1", "  ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1", "https://b.example/1"}, stored)

	stored, err = f.items.ReplaceSources(ctx, "k1", []string{"https://a.example/1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1"}, stored)
}

func TestReplaceSources_RejectsInvalidURLs(t *testing.T) {
	f := newFixture(t)
	ingest(t, f, "k1")

	for _, bad := range []string{"ftp://a.example", "not a url", "https://a.example/" + strings.Repeat("a", 130)} {
		_, err := f.items.ReplaceSources(context.Background(), "k1", []string{bad})
		assert.True(t, apperr.IsCode(err, apperr.CodeValidation), "input %q", bad)
	}
}

/*
TestReplaceLists_OversizedReportsLengthOnly rejects a list that is too long
with a single detail instead of one per entry.
*/
func TestReplaceLists_OversizedReportsLengthOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	urls := make([]string, constants.MaxSourcesPerItem+1)
	for i := range urls {
		urls[i] = fmt.Sprintf("ftp://mirror-%d.example", i)
	}
	_, err := f.items.ReplaceSources(ctx, "k1", urls)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, item.FieldSources, ae.Details[0].Field)

	names := make([]string, constants.MaxTagsPerItem+1)
	for i := range names {
		names[i] = "9bad"
	}
	_, err = f.items.ReplaceTags(ctx, "k1", names)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, item.FieldTags, ae.Details[0].Field)

	sources, err := f.items.ListSources(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, sources)
}

// # Deletion

/*
TestDelete_Permissions covers owner, stranger and moderator.
*/
func TestDelete_Permissions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "pending")
	ingest(t, f, "rated")
	_, err := f.items.Vet(ctx, moderator, "rated", item.RatingSafe)
	require.NoError(t, err)

	err = f.items.Delete(ctx, stranger, "pending")
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	err = f.items.Delete(ctx, uploader, "rated")
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))

	require.NoError(t, f.items.Delete(ctx, uploader, "pending"))
	require.NoError(t, f.items.Delete(ctx, moderator, "rated"))

	_, err = f.items.Get(ctx, "rated")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	err = f.items.Delete(ctx, moderator, "rated")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

/*
TestDelete_CascadesLinksButKeepsTags removes item rows only.
*/
func TestDelete_CascadesLinksButKeepsTags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ingest(t, f, "k1")

	_, err := f.items.ReplaceTags(ctx, "k1", []string{"fox"})
	require.NoError(t, err)
	_, err = f.items.ReplaceSources(ctx, "k1", []string{"https://a.example/1"})
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(ctx, moderator, "k1"))

	_, err = f.tags.Get(ctx, "fox")
	assert.NoError(t, err)

	// Re-ingesting the same key starts from a clean slate.
	ingest(t, f, "k1")
	stored, err := f.items.ListTags(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, stored)
	sources, err := f.items.ListSources(ctx, "k1")
	require.NoError(t, err)
	assert.Empty(t, sources)
}
