// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite

import "time"

// # Catalog Models
//
// These gorm models mirror the PostgreSQL catalog schema in data/migrations.
// Column names are identical so the search SQL can be shared in spirit between
// the two backends. Association fields exist only so AutoMigrate emits the
// foreign keys; stores always write with Omit(clause.Associations).

// ItemModel maps the item table.
type ItemModel struct {
	Key             string    `gorm:"column:itemkey;primaryKey;size:128"`
	FileID          string    `gorm:"column:fileid;not null"`
	Width           int       `gorm:"column:width;not null;default:0"`
	Height          int       `gorm:"column:height;not null;default:0"`
	Duration        int       `gorm:"column:duration;not null;default:0"`
	FileName        string    `gorm:"column:filename;not null;default:''"`
	MimeType        string    `gorm:"column:mimetype;not null;default:''"`
	FileSize        int64     `gorm:"column:filesize;not null;default:0"`
	PreviewFileID   string    `gorm:"column:previewfileid;not null;default:''"`
	PreviewWidth    int       `gorm:"column:previewwidth;not null;default:0"`
	PreviewHeight   int       `gorm:"column:previewheight;not null;default:0"`
	PreviewFileSize int64     `gorm:"column:previewfilesize;not null;default:0"`
	Rating          *string   `gorm:"column:rating;index:idx_item_rating"`
	UploaderID      string    `gorm:"column:uploaderid;not null"`
	ApproverID      *string   `gorm:"column:approverid"`
	CreatedAt       time.Time `gorm:"column:createdat;not null"`
	UpdatedAt       time.Time `gorm:"column:updatedat;not null"`
}

func (ItemModel) TableName() string { return "item" }

// TagModel maps the tag table.
type TagModel struct {
	Name      string    `gorm:"column:name;primaryKey;size:64"`
	Category  string    `gorm:"column:category;not null;default:general"`
	CreatedAt time.Time `gorm:"column:createdat;not null"`
}

func (TagModel) TableName() string { return "tag" }

// TagAliasModel maps the tagalias table.
type TagAliasModel struct {
	Alias   string   `gorm:"column:alias;primaryKey;size:64"`
	TagName string   `gorm:"column:tagname;not null;size:64;index:idx_tagalias_tagname"`
	Tag     TagModel `gorm:"foreignKey:TagName;references:Name;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (TagAliasModel) TableName() string { return "tagalias" }

// ItemTagModel maps the itemtag table.
type ItemTagModel struct {
	ItemKey string    `gorm:"column:itemkey;primaryKey;size:128"`
	TagName string    `gorm:"column:tagname;primaryKey;size:64;index:idx_itemtag_tagname"`
	Item    ItemModel `gorm:"foreignKey:ItemKey;references:Key;constraint:OnDelete:CASCADE"`
	Tag     TagModel  `gorm:"foreignKey:TagName;references:Name;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (ItemTagModel) TableName() string { return "itemtag" }

// SourceModel maps the source table.
type SourceModel struct {
	URL     string    `gorm:"column:url;primaryKey;size:128"`
	ItemKey string    `gorm:"column:itemkey;primaryKey;size:128;index:idx_source_itemkey"`
	Item    ItemModel `gorm:"foreignKey:ItemKey;references:Key;constraint:OnDelete:CASCADE"`
}

func (SourceModel) TableName() string { return "source" }

// ImplicationModel maps the implication table.
type ImplicationModel struct {
	TagName     string   `gorm:"column:tagname;primaryKey;size:64"`
	ImpliedName string   `gorm:"column:impliedname;primaryKey;size:64"`
	Tag         TagModel `gorm:"foreignKey:TagName;references:Name;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Implied     TagModel `gorm:"foreignKey:ImpliedName;references:Name;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (ImplicationModel) TableName() string { return "implication" }

// Models lists every catalog model in dependency order.
func Models() []any {
	return []any{
		&ItemModel{},
		&TagModel{},
		&TagAliasModel{},
		&ItemTagModel{},
		&SourceModel{},
		&ImplicationModel{},
	}
}
