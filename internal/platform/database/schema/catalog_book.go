package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table       string
	ID          string
	Title       string
	Author      string
	Description string
	CategoryID  string
	Slug        string
	CoverURL    string
	FileURL     string
	PublishYear string
	UploaderID  string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:       "catalog.book",
	ID:          "id",
	Title:       "title",
	Author:      "author",
	Description: "description",
	CategoryID:  "categoryid",
	Slug:        "slug",
	CoverURL:    "coverurl",
	FileURL:     "fileurl",
	PublishYear: "publishyear",
	UploaderID:  "uploaderid",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Description, t.CategoryID, t.Slug,
		t.CoverURL, t.FileURL, t.PublishYear, t.UploaderID, t.CreatedAt, t.UpdatedAt,
	}
}
