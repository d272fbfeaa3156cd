// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/platform/database/schema"
	"github.com/taibuivan/loopdex/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var postgresTables = tables{
	item:     schema.CatalogItem.Table,
	itemTag:  schema.CatalogItemTag.Table,
	tagAlias: schema.CatalogTagAlias.Table,
}

func (repository *PostgresRepository) Search(context context.Context, criteria Criteria) ([]*item.Item, int, error) {
	stmt := newStatement(postgresTables, true, criteria)

	query, args := stmt.page(criteria.Limit, criteria.Offset)
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_items")
	}
	defer rows.Close()

	items, total, err := item.ScanItemsWithTotal(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_items")
	}

	if len(items) == 0 && criteria.Offset > 0 {
		query, args := stmt.count()
		if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_search_items")
		}
	}

	return items, total, nil
}
