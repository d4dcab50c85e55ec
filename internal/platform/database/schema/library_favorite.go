package schema

// LibraryFavoriteTable represents the 'library.favorite' table
type LibraryFavoriteTable struct {
	Table     string
	ID        string
	UserID    string
	BookID    string
	CreatedAt string
}

// LibraryFavorite is the schema definition for library.favorite
var LibraryFavorite = LibraryFavoriteTable{
	Table:     "library.favorite",
	ID:        "id",
	UserID:    "userid",
	BookID:    "bookid",
	CreatedAt: "createdat",
}

func (t LibraryFavoriteTable) Columns() []string {
	return []string{t.ID, t.UserID, t.BookID, t.CreatedAt}
}
