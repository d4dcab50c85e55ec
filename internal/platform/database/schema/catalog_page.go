package schema

// CatalogPageTable represents the 'catalog.page' table
type CatalogPageTable struct {
	Table      string
	ID         string
	BookID     string
	PageNumber string
	Content    string
}

// CatalogPage is the schema definition for catalog.page
var CatalogPage = CatalogPageTable{
	Table:      "catalog.page",
	ID:         "id",
	BookID:     "bookid",
	PageNumber: "pagenumber",
	Content:    "content",
}

func (t CatalogPageTable) Columns() []string {
	return []string{t.ID, t.BookID, t.PageNumber, t.Content}
}
