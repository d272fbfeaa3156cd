// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/loopdex/internal/core/item"
)

func TestStatement_NumberedPlaceholders(t *testing.T) {
	stmt := newStatement(postgresTables, true, Criteria{
		Positive: []string{"red", "fox"},
		Negative: []string{"nsfw"},
		Rating:   item.RatingSafe,
	})

	query, args := stmt.page(20, 40)

	// rating, 2 names, 2 aliases, count, 1 name, 1 alias, limit, offset
	assert.Len(t, args, 10)
	assert.Equal(t, []any{"safe", "red", "fox", "red", "fox", 2, "nsfw", "nsfw", 20, 40}, args)
	assert.Contains(t, query, "LIMIT $9 OFFSET $10")
	assert.Contains(t, query, "FROM catalog.item i")
	assert.Contains(t, query, "ORDER BY i.itemkey ASC")
	assert.NotContains(t, query, "?")

	count, countArgs := stmt.count()
	assert.Len(t, countArgs, 8)
	assert.NotContains(t, count, "LIMIT")
}

func TestStatement_GateOnly(t *testing.T) {
	stmt := newStatement(sqliteTables, false, Criteria{})

	query, args := stmt.page(10, 0)
	assert.Equal(t, []any{10, 0}, args)
	assert.Contains(t, query, "i.rating IS NOT NULL")
	assert.NotContains(t, query, "NOT EXISTS")
	assert.NotContains(t, query, "HAVING")
	assert.Equal(t, 2, strings.Count(query, "?"))
}
