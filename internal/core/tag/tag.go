// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"slices"
	"time"
)

// # Categories

// Category groups tags by what they describe.
type Category string

const (
	CategoryArtist    Category = "artist"
	CategoryCharacter Category = "character"
	CategoryCopyright Category = "copyright"
	CategoryGeneral   Category = "general"
	CategoryMeta      Category = "meta"
	CategorySpecies   Category = "species"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryArtist,
	CategoryCharacter,
	CategoryCopyright,
	CategoryGeneral,
	CategoryMeta,
	CategorySpecies,
}

// Valid reports whether c is one of [Categories].
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// # Entities

// Tag is a canonical keyword that items are labelled with.
type Tag struct {
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Field names used in validation errors.
const (
	FieldName         = "name"
	FieldCategory     = "category"
	FieldAliases      = "aliases"
	FieldImplications = "implications"
)
