package schema

// LibraryHistoryTable represents the 'library.history' table
type LibraryHistoryTable struct {
	Table       string
	ID          string
	UserID      string
	BookID      string
	CompletedAt string
	Rating      string
	Review      string
	CreatedAt   string
	UpdatedAt   string
}

// LibraryHistory is the schema definition for library.history
var LibraryHistory = LibraryHistoryTable{
	Table:       "library.history",
	ID:          "id",
	UserID:      "userid",
	BookID:      "bookid",
	CompletedAt: "completedat",
	Rating:      "rating",
	Review:      "review",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t LibraryHistoryTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.BookID, t.CompletedAt, t.Rating, t.Review, t.CreatedAt, t.UpdatedAt,
	}
}
