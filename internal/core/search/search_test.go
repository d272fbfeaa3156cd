// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/loopdex/internal/core/item"
	"github.com/taibuivan/loopdex/internal/core/search"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want search.Query
	}{
		{
			name: "positive and negative",
			raw:  "red -nsfw fox",
			want: search.Query{Positive: []string{"red", "fox"}, Negative: []string{"nsfw"}},
		},
		{
			name: "lowercases and keeps colons",
			raw:  "  Artist:Jane   Tail_Wag ",
			want: search.Query{Positive: []string{"artist:jane", "tail_wag"}},
		},
		{
			name: "rating token",
			raw:  "fox rating:explicit",
			want: search.Query{Positive: []string{"fox"}, Rating: item.RatingExplicit},
		},
		{
			name: "invalid tokens dropped",
			raw:  "2fox fox! - -9 rating:unrated rating:nsfw ok",
			want: search.Query{Positive: []string{"ok"}},
		},
		{
			name: "empty",
			raw:  "   ",
			want: search.Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search.ParseQuery(tt.raw))
		})
	}
}

func TestQuery_String(t *testing.T) {
	query := search.ParseQuery("fox -nsfw rating:safe red")
	assert.Equal(t, "fox red -nsfw rating:safe", query.String())
	assert.Equal(t, query, search.ParseQuery(query.String()))
}
