// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

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

// # Tags

func (repository *SQLiteRepository) FindByName(context context.Context, name string) (*Tag, error) {
	var model sqlite.TagModel
	err := repository.db.WithContext(context).Where("name = ?", name).First(&model).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "find_tag", "Tag", name)
	}
	return fromModel(model), nil
}

func (repository *SQLiteRepository) FindByAlias(context context.Context, alias string) (*Tag, error) {
	var model sqlite.TagModel
	err := repository.db.WithContext(context).
		Joins("JOIN tagalias ON tagalias.tagname = tag.name").
		Where("tagalias.alias = ?", alias).
		First(&model).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "find_tag_by_alias", "Alias", alias)
	}
	return fromModel(model), nil
}

func (repository *SQLiteRepository) CreateIfAbsent(context context.Context, name string, category Category) (bool, error) {
	result := repository.db.WithContext(context).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlite.TagModel{Name: name, Category: string(category)})
	if result.Error != nil {
		return false, dberr.WrapKey(result.Error, "create_tag", "Tag", name)
	}
	return result.RowsAffected > 0, nil
}

func (repository *SQLiteRepository) UpdateCategory(context context.Context, name string, category Category) error {
	result := repository.db.WithContext(context).
		Model(&sqlite.TagModel{}).
		Where("name = ?", name).
		Update("category", string(category))
	if result.Error != nil {
		return dberr.WrapKey(result.Error, "update_tag_category", "Tag", name)
	}
	if result.RowsAffected == 0 {
		return dberr.WrapKey(gorm.ErrRecordNotFound, "update_tag_category", "Tag", name)
	}
	return nil
}

// Delete removes the tag in one transaction. Dependent rows are deleted
// explicitly so the cascade holds even on a file opened without foreign keys.
func (repository *SQLiteRepository) Delete(context context.Context, name string) error {
	err := repository.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", name).Delete(&sqlite.TagModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("tagname = ?", name).Delete(&sqlite.TagAliasModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tagname = ?", name).Delete(&sqlite.ItemTagModel{}).Error; err != nil {
			return err
		}
		return tx.Where("tagname = ? OR impliedname = ?", name, name).Delete(&sqlite.ImplicationModel{}).Error
	})
	if err != nil {
		return dberr.WrapKey(err, "delete_tag", "Tag", name)
	}
	return nil
}

// # Aliases

func (repository *SQLiteRepository) ListAliases(context context.Context, name string) ([]string, error) {
	aliases := make([]string, 0)
	err := repository.db.WithContext(context).
		Model(&sqlite.TagAliasModel{}).
		Where("tagname = ?", name).
		Order("alias ASC").
		Pluck("alias", &aliases).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "list_tag_aliases", "Tag", name)
	}
	return aliases, nil
}

func (repository *SQLiteRepository) AddAlias(context context.Context, name, alias string) (bool, error) {
	result := repository.db.WithContext(context).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlite.TagAliasModel{Alias: alias, TagName: name})
	if result.Error != nil {
		return false, dberr.WrapKey(result.Error, "add_tag_alias", "Alias", alias)
	}
	return result.RowsAffected > 0, nil
}

func (repository *SQLiteRepository) RemoveAlias(context context.Context, name, alias string) error {
	err := repository.db.WithContext(context).
		Where("alias = ? AND tagname = ?", alias, name).
		Delete(&sqlite.TagAliasModel{}).Error
	if err != nil {
		return dberr.WrapKey(err, "remove_tag_alias", "Alias", alias)
	}
	return nil
}

// # Implications

func (repository *SQLiteRepository) ListImplications(context context.Context, name string) ([]string, error) {
	implied := make([]string, 0)
	err := repository.db.WithContext(context).
		Model(&sqlite.ImplicationModel{}).
		Where("tagname = ?", name).
		Order("impliedname ASC").
		Pluck("impliedname", &implied).Error
	if err != nil {
		return nil, dberr.WrapKey(err, "list_tag_implications", "Tag", name)
	}
	return implied, nil
}

func (repository *SQLiteRepository) AddImplication(context context.Context, name, implied string) error {
	err := repository.db.WithContext(context).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sqlite.ImplicationModel{TagName: name, ImpliedName: implied}).Error
	if err != nil {
		return dberr.WrapKey(err, "add_tag_implication", "Tag", implied)
	}
	return nil
}

func (repository *SQLiteRepository) RemoveImplication(context context.Context, name, implied string) error {
	err := repository.db.WithContext(context).
		Where("tagname = ? AND impliedname = ?", name, implied).
		Delete(&sqlite.ImplicationModel{}).Error
	if err != nil {
		return dberr.WrapKey(err, "remove_tag_implication", "Tag", implied)
	}
	return nil
}

func fromModel(model sqlite.TagModel) *Tag {
	return &Tag{
		Name:      model.Name,
		Category:  Category(model.Category),
		CreatedAt: model.CreatedAt,
	}
}
