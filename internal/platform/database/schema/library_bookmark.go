package schema

// LibraryBookmarkTable represents the 'library.bookmark' table
type LibraryBookmarkTable struct {
	Table      string
	ID         string
	UserID     string
	BookID     string
	PageNumber string
	CreatedAt  string
	UpdatedAt  string
}

// LibraryBookmark is the schema definition for library.bookmark
var LibraryBookmark = LibraryBookmarkTable{
	Table:      "library.bookmark",
	ID:         "id",
	UserID:     "userid",
	BookID:     "bookid",
	PageNumber: "pagenumber",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t LibraryBookmarkTable) Columns() []string {
	return []string{t.ID, t.UserID, t.BookID, t.PageNumber, t.CreatedAt, t.UpdatedAt}
}
