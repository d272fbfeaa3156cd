package schema

// CatalogItemTagTable represents the 'catalog.itemtag' table
type CatalogItemTagTable struct {
	Table   string
	ItemKey string
	TagName string
}

// CatalogItemTag is the schema definition for catalog.itemtag
var CatalogItemTag = CatalogItemTagTable{
	Table:   "catalog.itemtag",
	ItemKey: "itemkey",
	TagName: "tagname",
}

// CatalogSourceTable represents the 'catalog.source' table
type CatalogSourceTable struct {
	Table   string
	URL     string
	ItemKey string
}

// CatalogSource is the schema definition for catalog.source
var CatalogSource = CatalogSourceTable{
	Table:   "catalog.source",
	URL:     "url",
	ItemKey: "itemkey",
}
