// Copyright (c) 2026 Loopdex. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package item

import "time"

// # Ratings

// Rating is the content-sensitivity classification of an item.
type Rating string

const (
	// RatingUnrated marks an item awaiting moderation. It is stored as NULL
	// and never appears in search results.
	RatingUnrated  Rating = "unrated"
	RatingSafe     Rating = "safe"
	RatingExplicit Rating = "explicit"
)

// Ratings lists every valid rating.
var Ratings = []Rating{RatingUnrated, RatingSafe, RatingExplicit}

// Valid reports whether r is a known rating.
func (r Rating) Valid() bool {
	return r == RatingUnrated || r == RatingSafe || r == RatingExplicit
}

// Visible reports whether items with this rating can be found by search.
func (r Rating) Visible() bool {
	return r == RatingSafe || r == RatingExplicit
}

// Column converts the rating to its nullable storage value.
func (r Rating) Column() *string {
	if !r.Visible() {
		return nil
	}
	value := string(r)
	return &value
}

// RatingFromColumn converts a nullable storage value back to a [Rating].
func RatingFromColumn(value *string) Rating {
	if value == nil {
		return RatingUnrated
	}
	return Rating(*value)
}

// # Entities

// Preview is the still or low-resolution asset shown before playback.
type Preview struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

// Item is one catalogued animation.
//
// Key is the storage-stable unique identifier supplied by the message
// platform; FileID is a transient download handle and may change over time.
type Item struct {
	Key        string    `json:"key"`
	FileID     string    `json:"file_id"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Duration   int       `json:"duration"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	FileSize   int64     `json:"file_size"`
	Preview    Preview   `json:"preview"`
	Rating     Rating    `json:"rating"`
	UploaderID string    `json:"uploader_id"`
	ApproverID *string   `json:"approver_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Properties are the platform-supplied attributes of a new item.
type Properties struct {
	Key      string  `json:"key"`
	FileID   string  `json:"file_id"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration int     `json:"duration"`
	FileName string  `json:"file_name"`
	MimeType string  `json:"mime_type"`
	FileSize int64   `json:"file_size"`
	Preview  Preview `json:"preview"`
}

// Field names used in validation errors.
const (
	FieldKey        = "key"
	FieldFileID     = "file_id"
	FieldWidth      = "width"
	FieldHeight     = "height"
	FieldDuration   = "duration"
	FieldFileName   = "file_name"
	FieldMimeType   = "mime_type"
	FieldFileSize   = "file_size"
	FieldUploaderID = "uploader_id"
	FieldRating     = "rating"
	FieldTags       = "tags"
	FieldSources    = "sources"
)
