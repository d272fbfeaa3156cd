// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// # Tags

func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Tag, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.CatalogTag.Columns(), ", "),
		schema.CatalogTag.Table, schema.CatalogTag.Name,
	)

	tag, err := scanTag(repository.db.QueryRow(context, query, name))
	if err != nil {
		return nil, dberr.WrapKey(err, "find_tag", "Tag", name)
	}
	return tag, nil
}

func (repository *PostgresRepository) FindByAlias(context context.Context, alias string) (*Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s
		FROM %s a
		JOIN %s t ON t.%s = a.%s
		WHERE a.%s = $1
	`,
		schema.CatalogTag.Name, schema.CatalogTag.Category, schema.CatalogTag.CreatedAt,
		schema.CatalogTagAlias.Table, schema.CatalogTag.Table,
		schema.CatalogTag.Name, schema.CatalogTagAlias.TagName,
		schema.CatalogTagAlias.Alias,
	)

	tag, err := scanTag(repository.db.QueryRow(context, query, alias))
	if err != nil {
		return nil, dberr.WrapKey(err, "find_tag_by_alias", "Alias", alias)
	}
	return tag, nil
}

func (repository *PostgresRepository) CreateIfAbsent(context context.Context, name string, category Category) (bool, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING`,
		schema.CatalogTag.Table, schema.CatalogTag.Name, schema.CatalogTag.Category, schema.CatalogTag.Name,
	)

	result, err := repository.db.Exec(context, query, name, string(category))
	if err != nil {
		return false, dberr.WrapKey(err, "create_tag", "Tag", name)
	}
	return result.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) UpdateCategory(context context.Context, name string, category Category) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.CatalogTag.Table, schema.CatalogTag.Category, schema.CatalogTag.Name,
	)

	result, err := repository.db.Exec(context, query, name, string(category))
	if err != nil {
		return dberr.WrapKey(err, "update_tag_category", "Tag", name)
	}
	if result.RowsAffected() == 0 {
		return dberr.WrapKey(pgx.ErrNoRows, "update_tag_category", "Tag", name)
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CatalogTag.Table, schema.CatalogTag.Name)

	result, err := repository.db.Exec(context, query, name)
	if err != nil {
		return dberr.WrapKey(err, "delete_tag", "Tag", name)
	}
	if result.RowsAffected() == 0 {
		return dberr.WrapKey(pgx.ErrNoRows, "delete_tag", "Tag", name)
	}
	return nil
}

// # Aliases

func (repository *PostgresRepository) ListAliases(context context.Context, name string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CatalogTagAlias.Alias, schema.CatalogTagAlias.Table,
		schema.CatalogTagAlias.TagName, schema.CatalogTagAlias.Alias,
	)
	return repository.listNames(context, "list_tag_aliases", name, query)
}

func (repository *PostgresRepository) AddAlias(context context.Context, name, alias string) (bool, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO NOTHING`,
		schema.CatalogTagAlias.Table, schema.CatalogTagAlias.Alias, schema.CatalogTagAlias.TagName,
		schema.CatalogTagAlias.Alias,
	)

	result, err := repository.db.Exec(context, query, alias, name)
	if err != nil {
		return false, dberr.WrapKey(err, "add_tag_alias", "Alias", alias)
	}
	return result.RowsAffected() > 0, nil
}

func (repository *PostgresRepository) RemoveAlias(context context.Context, name, alias string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogTagAlias.Table, schema.CatalogTagAlias.Alias, schema.CatalogTagAlias.TagName,
	)

	if _, err := repository.db.Exec(context, query, alias, name); err != nil {
		return dberr.WrapKey(err, "remove_tag_alias", "Alias", alias)
	}
	return nil
}

// # Implications

func (repository *PostgresRepository) ListImplications(context context.Context, name string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		schema.CatalogImplication.ImpliedName, schema.CatalogImplication.Table,
		schema.CatalogImplication.TagName, schema.CatalogImplication.ImpliedName,
	)
	return repository.listNames(context, "list_tag_implications", name, query)
}

func (repository *PostgresRepository) AddImplication(context context.Context, name, implied string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.CatalogImplication.Table, schema.CatalogImplication.TagName, schema.CatalogImplication.ImpliedName,
	)

	if _, err := repository.db.Exec(context, query, name, implied); err != nil {
		return dberr.WrapKey(err, "add_tag_implication", "Tag", implied)
	}
	return nil
}

func (repository *PostgresRepository) RemoveImplication(context context.Context, name, implied string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CatalogImplication.Table, schema.CatalogImplication.TagName, schema.CatalogImplication.ImpliedName,
	)

	if _, err := repository.db.Exec(context, query, name, implied); err != nil {
		return dberr.WrapKey(err, "remove_tag_implication", "Tag", implied)
	}
	return nil
}

// # Helpers

func (repository *PostgresRepository) listNames(context context.Context, op, key, query string) ([]string, error) {
	rows, err := repository.db.Query(context, query, key)
	if err != nil {
		return nil, dberr.WrapKey(err, op, "Tag", key)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dberr.WrapKey(err, op, "Tag", key)
	}
	return names, nil
}

func scanTag(row pgx.Row) (*Tag, error) {
	tag := &Tag{}
	var category string
	if err := row.Scan(&tag.Name, &category, &tag.CreatedAt); err != nil {
		return nil, err
	}
	tag.Category = Category(category)
	return tag, nil
}
