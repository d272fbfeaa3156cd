// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/loopdex/internal/core/tag"
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

// # Items

func (repository *PostgresRepository) Insert(context context.Context, item *Item) (bool, error) {
	columns := schema.CatalogItem.Columns()[:15] // everything but the timestamps
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING`,
		schema.CatalogItem.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		schema.CatalogItem.Key,
	)

	result, err := repository.db.Exec(context, query,
		item.Key, item.FileID, item.Width, item.Height, item.Duration,
		item.FileName, item.MimeType, item.FileSize,
		item.Preview.FileID, item.Preview.Width, item.Preview.Height, item.Preview.FileSize,
		item.Rating.Column(), item.UploaderID, item.ApproverID,
	)
	if err != nil {
		return false, dberr.WrapKey(err, "insert_item", "Item", item.Key)
	}
	return result.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) FindByKey(context context.Context, key string) (*Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.CatalogItem.Columns(), ", "),
		schema.CatalogItem.Table, schema.CatalogItem.Key,
	)

	item, err := ScanItem(repository.db.QueryRow(context, query, key))
	if err != nil {
		return nil, dberr.WrapKey(err, "find_item", "Item", key)
	}
	return item, nil
}

func (repository *PostgresRepository) ListPending(context context.Context, limit, offset int) ([]*Item, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s ASC, %s ASC
		LIMIT $1 OFFSET $2
	`,
		strings.Join(schema.CatalogItem.Columns(), ", "),
		schema.CatalogItem.Table,
		schema.CatalogItem.Rating,
		schema.CatalogItem.CreatedAt, schema.CatalogItem.Key,
	)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pending_items")
	}
	defer rows.Close()

	items, total, err := ScanItemsWithTotal(rows)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_pending_items")
	}
	return items, total, nil
}

func (repository *PostgresRepository) UpdateRating(context context.Context, key string, rating Rating) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CatalogItem.Table, schema.CatalogItem.Rating, schema.CatalogItem.UpdatedAt, schema.CatalogItem.Key,
	)
	return repository.execOne(context, "update_item_rating", key, query, key, rating.Column())
}

func (repository *PostgresRepository) UpdateApprover(context context.Context, key string, approverID *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.CatalogItem.Table, schema.CatalogItem.ApproverID, schema.CatalogItem.UpdatedAt, schema.CatalogItem.Key,
	)
	return repository.execOne(context, "update_item_approver", key, query, key, approverID)
}

func (repository *PostgresRepository) Moderate(context context.Context, key string, rating Rating, approverID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = NOW() WHERE %s = $1`,
		schema.CatalogItem.Table,
		schema.CatalogItem.Rating, schema.CatalogItem.ApproverID, schema.CatalogItem.UpdatedAt,
		schema.CatalogItem.Key,
	)
	return repository.execOne(context, "moderate_item", key, query, key, rating.Column(), approverID)
}

func (repository *PostgresRepository) Delete(context context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogItem.Table, schema.CatalogItem.Key)
	return repository.execOne(context, "delete_item", key, query, key)
}

// # Tags

func (repository *PostgresRepository) ListTags(context context.Context, key string) ([]*tag.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s
		FROM %s it
		JOIN %s t ON t.%s = it.%s
		WHERE it.%s = $1
		ORDER BY t.%s ASC
	`,
		schema.CatalogTag.Name, schema.CatalogTag.Category, schema.CatalogTag.CreatedAt,
		schema.CatalogItemTag.Table, schema.CatalogTag.Table,
		schema.CatalogTag.Name, schema.CatalogItemTag.TagName,
		schema.CatalogItemTag.ItemKey,
		schema.CatalogTag.Name,
	)

	rows, err := repository.db.Query(context, query, key)
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_tags", "Item", key)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*tag.Tag, error) {
		t := &tag.Tag{}
		err := row.Scan(&t.Name, &t.Category, &t.CreatedAt)
		return t, err
	})
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_tags", "Item", key)
	}
	return tags, nil
}

func (repository *PostgresRepository) AddTag(context context.Context, key, tagName string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CatalogItemTag.Table, schema.CatalogItemTag.ItemKey, schema.CatalogItemTag.TagName,
	)

	if _, err := repository.db.Exec(context, query, key, tagName); err != nil {
		return dberr.WrapKey(err, "add_item_tag", "Item", key)
	}
	return nil
}

func (repository *PostgresRepository) RemoveTag(context context.Context, key, tagName string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogItemTag.Table, schema.CatalogItemTag.ItemKey, schema.CatalogItemTag.TagName,
	)

	if _, err := repository.db.Exec(context, query, key, tagName); err != nil {
		return dberr.WrapKey(err, "remove_item_tag", "Item", key)
	}
	return nil
}

// # Sources

func (repository *PostgresRepository) ListSources(context context.Context, key string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CatalogSource.URL, schema.CatalogSource.Table,
		schema.CatalogSource.ItemKey, schema.CatalogSource.URL,
	)

	rows, err := repository.db.Query(context, query, key)
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_sources", "Item", key)
	}

	urls, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.WrapKey(err, "list_item_sources", "Item", key)
	}
	return urls, nil
}

func (repository *PostgresRepository) AddSource(context context.Context, key, url string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CatalogSource.Table, schema.CatalogSource.URL, schema.CatalogSource.ItemKey,
	)

	if _, err := repository.db.Exec(context, query, url, key); err != nil {
		return dberr.WrapKey(err, "add_item_source", "Item", key)
	}
	return nil
}

func (repository *PostgresRepository) RemoveSource(context context.Context, key, url string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogSource.Table, schema.CatalogSource.URL, schema.CatalogSource.ItemKey,
	)

	if _, err := repository.db.Exec(context, query, url, key); err != nil {
		return dberr.WrapKey(err, "remove_item_source", "Item", key)
	}
	return nil
}

// # Helpers

// execOne runs a single-row mutation and maps "no row touched" to NOT_FOUND.
func (repository *PostgresRepository) execOne(context context.Context, op, key, query string, args ...any) error {
	result, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.WrapKey(err, op, "Item", key)
	}
	if result.RowsAffected() == 0 {
		return dberr.WrapKey(pgx.ErrNoRows, op, "Item", key)
	}
	return nil
}

// itemDest returns scan targets in [schema.CatalogItemTable.Columns] order.
func itemDest(item *Item, rating **string) []any {
	return []any{
		&item.Key, &item.FileID, &item.Width, &item.Height, &item.Duration,
		&item.FileName, &item.MimeType, &item.FileSize,
		&item.Preview.FileID, &item.Preview.Width, &item.Preview.Height, &item.Preview.FileSize,
		rating, &item.UploaderID, &item.ApproverID, &item.CreatedAt, &item.UpdatedAt,
	}
}

// ScanItem reads one row selected with [schema.CatalogItemTable.Columns].
func ScanItem(row pgx.Row) (*Item, error) {
	item := &Item{}
	var rating *string
	if err := row.Scan(itemDest(item, &rating)...); err != nil {
		return nil, err
	}
	item.Rating = RatingFromColumn(rating)
	return item, nil
}

// ScanItemsWithTotal reads rows selected with the item columns followed by a
// COUNT(*) OVER() total.
func ScanItemsWithTotal(rows pgx.Rows) ([]*Item, int, error) {
	items := make([]*Item, 0)
	total := 0

	for rows.Next() {
		item := &Item{}
		var rating *string
		if err := rows.Scan(append(itemDest(item, &rating), &total)...); err != nil {
			return nil, 0, err
		}
		item.Rating = RatingFromColumn(rating)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
