// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"gorm.io/gorm"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
	"github.com/taibuivan/loopdex/internal/platform/sqlite"
)

// SQLiteRepository implements [Repository] on the embedded gorm store.
//
// The query is the same hand-written SQL as on PostgreSQL; gorm only runs it
// and maps the rows.
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository constructs a [SQLiteRepository].
func NewSQLiteRepository(db *gorm.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

var sqliteTables = tables{
	item:     sqlite.ItemModel{}.TableName(),
	itemTag:  sqlite.ItemTagModel{}.TableName(),
	tagAlias: sqlite.TagAliasModel{}.TableName(),
}

// matchRow is an item row plus its window total.
type matchRow struct {
	sqlite.ItemModel
	Total int64 `gorm:"column:total"`
}

func (repository *SQLiteRepository) Search(context context.Context, criteria Criteria) ([]*item.Item, int, error) {
	stmt := newStatement(sqliteTables, false, criteria)

	query, args := stmt.page(criteria.Limit, criteria.Offset)

	var rows []matchRow
	if err := repository.db.WithContext(context).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, dberr.Wrap(err, "search_items")
	}

	items := make([]*item.Item, 0, len(rows))
	total := 0
	for _, row := range rows {
		items = append(items, item.FromModel(row.ItemModel))
		total = int(row.Total)
	}

	if len(rows) == 0 && criteria.Offset > 0 {
		query, args := stmt.count()
		var count int64
		if err := repository.db.WithContext(context).Raw(query, args...).Scan(&count).Error; err != nil {
			return nil, 0, dberr.Wrap(err, "count_search_items")
		}
		total = int(count)
	}

	return items, total, nil
}
