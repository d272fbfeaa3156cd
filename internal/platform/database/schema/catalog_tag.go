package schema

// CatalogTagTable represents the 'catalog.tag' table
type CatalogTagTable struct {
	Table     string
	Name      string
	Category  string
	CreatedAt string
}

// CatalogTag is the schema definition for catalog.tag
var CatalogTag = CatalogTagTable{
	Table:     "catalog.tag",
	Name:      "name",
	Category:  "category",
	CreatedAt: "createdat",
}

func (t CatalogTagTable) Columns() []string {
	return []string{t.Name, t.Category, t.CreatedAt}
}

// CatalogTagAliasTable represents the 'catalog.tagalias' table
type CatalogTagAliasTable struct {
	Table   string
	Alias   string
	TagName string
}

// CatalogTagAlias is the schema definition for catalog.tagalias
var CatalogTagAlias = CatalogTagAliasTable{
	Table:   "catalog.tagalias",
	Alias:   "alias",
	TagName: "tagname",
}

// CatalogImplicationTable represents the 'catalog.implication' table
type CatalogImplicationTable struct {
	Table       string
	TagName     string
	ImpliedName string
}

// CatalogImplication is the schema definition for catalog.implication
var CatalogImplication = CatalogImplicationTable{
	Table:       "catalog.implication",
	TagName:     "tagname",
	ImpliedName: "impliedname",
}
