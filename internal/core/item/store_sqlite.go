// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taibuivan/loopdex/internal/core/tag"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
	"github.com/taibuivan/loopdex/internal/platform/sqlite"
)

// SQLiteRepository implements [Repository] on the embedded gorm store.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository constructs a [SQLiteRepository].
func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// # Items

func (repository *SQLiteRepository) Insert(context context.Context, item *Item) (bool, error) {
	model := toModel(item)
	result := repository.db.WithContext(context).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model)
	if result.Error != nil {
		return false, dberr.WrapKey(result.Error, "insert_item", "Item", item.Key)
	}
	return result.RowsAffected > 0, nil
}

func (repository *SQLiteRepository) FindByKey(context context.Context, key string) (*Item, error) {
	var model sqlite.ItemModel
	err := repository.db.WithContext(context).Where("itemkey = ?", key).First(&model).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "find_item", "Item", key)
	}
	return FromModel(model), nil
}

func (repository *SQLiteRepository) ListPending(context context.Context, limit, offset int) ([]*Item, int, error) {
	pending := repository.db.WithContext(context).Model(&sqlite.ItemModel{}).Where("rating IS NULL")

	var total int64
	if err := pending.Count(&total).Error; err != nil {
		return nil, 0, dberr.Wrap(err, "list_pending_items")
	}

	var models []sqlite.ItemModel
	err := repository.db.WithContext(context).
		Where("rating IS NULL").
		Order("createdat ASC").Order("itemkey ASC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pending_items")
	}

	items := make([]*Item, 0, len(models))
	for _, model := range models {
		items = append(items, FromModel(model))
	}
	return items, int(total), nil
}

func (repository *SQLiteRepository) UpdateRating(context context.Context, key string, rating Rating) error {
	return repository.updateOne(context, "update_item_rating", key, map[string]any{
		"rating": rating.Column(),
	})
}

func (repository *SQLiteRepository) UpdateApprover(context context.Context, key string, approverID *string) error {
	return repository.updateOne(context, "update_item_approver", key, map[string]any{
		"approverid": approverID,
	})
}

func (repository *SQLiteRepository) Moderate(context context.Context, key string, rating Rating, approverID string) error {
	return repository.updateOne(context, "moderate_item", key, map[string]any{
		"rating":     rating.Column(),
		"approverid": approverID,
	})
}

// Delete removes the item and its dependent rows in one transaction.
func (repository *SQLiteRepository) Delete(context context.Context, key string) error {
	err := repository.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("itemkey = ?", key).Delete(&sqlite.ItemTagModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("itemkey = ?", key).Delete(&sqlite.SourceModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("itemkey = ?", key).Delete(&sqlite.ItemModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return dberr.WrapKey(err, "delete_item", "Item", key)
	}
	return nil
}

// # Tags

func (repository *SQLiteRepository) ListTags(context context.Context, key string) ([]*tag.Tag, error) {
	var models []sqlite.TagModel
	err := repository.db.WithContext(context).
		Joins("JOIN itemtag ON itemtag.tagname = tag.name").
		Where("itemtag.itemkey = ?", key).
		Order("tag.name ASC").
		Find(&models).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_tags", "Item", key)
	}

	tags := make([]*tag.Tag, 0, len(models))
	for _, model := range models {
		tags = append(tags, &tag.Tag{
			Name:      model.Name,
			Category:  tag.Category(model.Category),
			CreatedAt: model.CreatedAt,
		})
	}
	return tags, nil
}

func (repository *SQLiteRepository) AddTag(context context.Context, key, tagName string) error {
	err := repository.db.WithContext(context).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlite.ItemTagModel{ItemKey: key, TagName: tagName}).Error
	if err != nil {
		return dberr.WrapKey(err, "add_item_tag", "Item", key)
	}
	return nil
}

func (repository *SQLiteRepository) RemoveTag(context context.Context, key, tagName string) error {
	err := repository.db.WithContext(context).
		Where("itemkey = ? AND tagname = ?", key, tagName).
		Delete(&sqlite.ItemTagModel{}).Error
	if err != nil {
		return dberr.WrapKey(err, "remove_item_tag", "Item", key)
	}
	return nil
}

// # Sources

func (repository *SQLiteRepository) ListSources(context context.Context, key string) ([]string, error) {
	urls := make([]string, 0)
	err := repository.db.WithContext(context).
		Model(&sqlite.SourceModel{}).
		Where("itemkey = ?", key).
		Order("url ASC").
		Pluck("url", &urls).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_sources", "Item", key)
	}
	return urls, nil
}

func (repository *SQLiteRepository) AddSource(context context.Context, key, url string) error {
	err := repository.db.WithContext(context).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlite.SourceModel{URL: url, ItemKey: key}).Error
	if err != nil {
		return dberr.WrapKey(err, "add_item_source", "Item", key)
	}
	return nil
}

func (repository *SQLiteRepository) RemoveSource(context context.Context, key, url string) error {
	err := repository.db.WithContext(context).
		Where("url = ? AND itemkey = ?", url, key).
		Delete(&sqlite.SourceModel{}).Error
	if err != nil {
		return dberr.WrapKey(err, "remove_item_source", "Item", key)
	}
	return nil
}

// # Helpers

func (repository *SQLiteRepository) updateOne(context context.Context, op, key string, values map[string]any) error {
	values["updatedat"] = time.Now().UTC()

	result := repository.db.WithContext(context).
		Model(&sqlite.ItemModel{}).
		Where("itemkey = ?", key).
		Updates(values)
	if result.Error != nil {
		return dberr.WrapKey(result.Error, op, "Item", key)
	}
	if result.RowsAffected == 0 {
		return dberr.WrapKey(gorm.ErrRecordNotFound, op, "Item", key)
	}
	return nil
}

func toModel(item *Item) sqlite.ItemModel {
	return sqlite.ItemModel{
		Key:             item.Key,
		FileID:          item.FileID,
		Width:           item.Width,
		Height:          item.Height,
		Duration:        item.Duration,
		FileName:        item.FileName,
		MimeType:        item.MimeType,
		FileSize:        item.FileSize,
		PreviewFileID:   item.Preview.FileID,
		PreviewWidth:    item.Preview.Width,
		PreviewHeight:   item.Preview.Height,
		PreviewFileSize: item.Preview.FileSize,
		Rating:          item.Rating.Column(),
		UploaderID:      item.UploaderID,
		ApproverID:      item.ApproverID,
	}
}

// FromModel converts a gorm item row.
func FromModel(model sqlite.ItemModel) *Item {
	return &Item{
		Key:      model.Key,
		FileID:   model.FileID,
		Width:    model.Width,
		Height:   model.Height,
		Duration: model.Duration,
		FileName: model.FileName,
		MimeType: model.MimeType,
		FileSize: model.FileSize,
		Preview: Preview{
			FileID:   model.PreviewFileID,
			Width:    model.PreviewWidth,
			Height:   model.PreviewHeight,
			FileSize: model.PreviewFileSize,
		},
		Rating:     RatingFromColumn(model.Rating),
		UploaderID: model.UploaderID,
		ApproverID: model.ApproverID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
