// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/loopdex/internal/platform/database/schema"
)

// tables names the relations a search touches. Column names are shared by
// both backends; only table qualification differs.
type tables struct {
	item     string
	itemTag  string
	tagAlias string
}

// statement accumulates SQL fragments and their bound arguments.
type statement struct {
	tables     tables
	numbered   bool // $1, $2 placeholders instead of ?
	conditions []string
	args       []any
}

// bind appends an argument and returns its placeholder.
func (stmt *statement) bind(value any) string {
	stmt.args = append(stmt.args, value)
	if stmt.numbered {
		return fmt.Sprintf("$%d", len(stmt.args))
	}
	return "?"
}

// bindList binds every value and returns a parenthesised placeholder list.
func (stmt *statement) bindList(values []string) string {
	placeholders := make([]string, len(values))
	for i, value := range values {
		placeholders[i] = stmt.bind(value)
	}
	return "(" + strings.Join(placeholders, ", ") + ")"
}

/*
newStatement builds the WHERE clause shared by the page and count queries.

Conditions:
  - Gate: rating IS NOT NULL, plus equality when a rating is requested.
  - Positive: the item key must appear in a per-item tally of matched tokens
    whose distinct count equals the number of tokens. Tokens are tallied from
    two branches, canonical names and aliases of the item's tags.
  - Negative: no item tag may equal a token by name or alias.
*/
func newStatement(t tables, numbered bool, criteria Criteria) *statement {
	stmt := &statement{tables: t, numbered: numbered}

	var (
		item     = schema.CatalogItem
		itemTag  = schema.CatalogItemTag
		tagAlias = schema.CatalogTagAlias
	)

	stmt.conditions = append(stmt.conditions, fmt.Sprintf("i.%s IS NOT NULL", item.Rating))

	if criteria.Rating.Visible() {
		stmt.conditions = append(stmt.conditions,
			fmt.Sprintf("i.%s = %s", item.Rating, stmt.bind(string(criteria.Rating))))
	}

	if len(criteria.Positive) > 0 {
		names := stmt.bindList(criteria.Positive)
		aliases := stmt.bindList(criteria.Positive)
		want := stmt.bind(len(criteria.Positive))

		stmt.conditions = append(stmt.conditions, fmt.Sprintf(`i.%[1]s IN (
			SELECT matched.%[1]s FROM (
				SELECT it.%[1]s, it.%[2]s AS token
				FROM %[3]s it
				WHERE it.%[2]s IN %[5]s
				UNION
				SELECT it.%[1]s, ta.%[6]s AS token
				FROM %[3]s it
				JOIN %[4]s ta ON ta.%[7]s = it.%[2]s
				WHERE ta.%[6]s IN %[8]s
			) matched
			GROUP BY matched.%[1]s
			HAVING COUNT(DISTINCT matched.token) = %[9]s
		)`,
			itemTag.ItemKey, itemTag.TagName, t.itemTag, t.tagAlias,
			names, tagAlias.Alias, tagAlias.TagName, aliases, want,
		))
	}

	if len(criteria.Negative) > 0 {
		names := stmt.bindList(criteria.Negative)
		aliases := stmt.bindList(criteria.Negative)

		stmt.conditions = append(stmt.conditions, fmt.Sprintf(`NOT EXISTS (
			SELECT 1
			FROM %[1]s it
			LEFT JOIN %[2]s ta ON ta.%[3]s = it.%[4]s
			WHERE it.%[5]s = i.%[6]s
			  AND (it.%[4]s IN %[7]s OR ta.%[8]s IN %[9]s)
		)`,
			t.itemTag, t.tagAlias, tagAlias.TagName, itemTag.TagName,
			itemTag.ItemKey, item.Key, names, tagAlias.Alias, aliases,
		))
	}

	return stmt
}

// where renders the accumulated conditions.
func (stmt *statement) where() string {
	return strings.Join(stmt.conditions, "\n\t\t  AND ")
}

// page renders the page query: item columns plus a window total, in key order.
func (stmt *statement) page(limit, offset int) (string, []any) {
	item := schema.CatalogItem

	columns := make([]string, 0, len(item.Columns()))
	for _, column := range item.Columns() {
		columns = append(columns, "i."+column)
	}

	args := append(slices.Clone(stmt.args), limit, offset)
	limitAt, offsetAt := "?", "?"
	if stmt.numbered {
		limitAt, offsetAt = fmt.Sprintf("$%d", len(args)-1), fmt.Sprintf("$%d", len(args))
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s i
		WHERE %s
		ORDER BY i.%s ASC
		LIMIT %s OFFSET %s
	`,
		strings.Join(columns, ", "),
		stmt.tables.item,
		stmt.where(),
		item.Key,
		limitAt, offsetAt,
	)
	return query, args
}

// count renders a plain count of all matches. It is only needed when a page
// comes back empty and the window total is therefore unavailable.
func (stmt *statement) count() (string, []any) {
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s i WHERE %s`, stmt.tables.item, stmt.where()), stmt.args
}
