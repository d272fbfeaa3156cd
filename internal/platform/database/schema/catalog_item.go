package schema

// CatalogItemTable represents the 'catalog.item' table
type CatalogItemTable struct {
	Table           string
	Key             string
	FileID          string
	Width           string
	Height          string
	Duration        string
	FileName        string
	MimeType        string
	FileSize        string
	PreviewFileID   string
	PreviewWidth    string
	PreviewHeight   string
	PreviewFileSize string
	Rating          string
	UploaderID      string
	ApproverID      string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogItem is the schema definition for catalog.item
var CatalogItem = CatalogItemTable{
	Table:           "catalog.item",
	Key:             "itemkey",
	FileID:          "fileid",
	Width:           "width",
	Height:          "height",
	Duration:        "duration",
	FileName:        "filename",
	MimeType:        "mimetype",
	FileSize:        "filesize",
	PreviewFileID:   "previewfileid",
	PreviewWidth:    "previewwidth",
	PreviewHeight:   "previewheight",
	PreviewFileSize: "previewfilesize",
	Rating:          "rating",
	UploaderID:      "uploaderid",
	ApproverID:      "approverid",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CatalogItemTable) Columns() []string {
	return []string{
		t.Key, t.FileID, t.Width, t.Height, t.Duration, t.FileName, t.MimeType, t.FileSize,
		t.PreviewFileID, t.PreviewWidth, t.PreviewHeight, t.PreviewFileSize,
		t.Rating, t.UploaderID, t.ApproverID, t.CreatedAt, t.UpdatedAt,
	}
}
