// Copyright (c) 2026 BookHaven. All rights reserved.

package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/bookhaven/internal/catalog/book"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/database/schema"
	"github.com/bookhaven/bookhaven/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed library store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Bookmarks

/*
UpsertBookmark saves or moves a reading position. The UNIQUE(userid, bookid)
constraint turns a repeat save into an in-place update of the page number.
*/
func (repository *PostgresRepository) UpsertBookmark(context context.Context, bookmark *Bookmark) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.LibraryBookmark.Table,
		schema.LibraryBookmark.ID, schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID,
		schema.LibraryBookmark.PageNumber, schema.LibraryBookmark.CreatedAt, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID,
		schema.LibraryBookmark.PageNumber, schema.LibraryBookmark.PageNumber,
		schema.LibraryBookmark.UpdatedAt, schema.LibraryBookmark.UpdatedAt,
	)

	now := time.Now()
	bookmark.UpdatedAt = now
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = now
	}

	_, err := repository.pool.Exec(context, query,
		bookmark.ID, bookmark.UserID, bookmark.BookID, bookmark.PageNumber, now,
	)
	if err != nil {
		return dberr.Wrap(err, "upsert_bookmark")
	}

	return nil
}

/*
ResolveBookmark returns the single bookmark for a (reader, book) pair.

Description: The query deliberately scans every matching row instead of using
LIMIT 1. Zero rows is a normal NotFound; more than one means the storage
invariant is broken and surfaces as an integrity violation rather than
silently picking a winner.
*/
func (repository *PostgresRepository) ResolveBookmark(context context.Context, userID, bookID string) (*Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.LibraryBookmark.ID, schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID,
		schema.LibraryBookmark.PageNumber, schema.LibraryBookmark.CreatedAt, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.Table,
		schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID,
	)

	rows, err := repository.pool.Query(context, query, userID, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "resolve_bookmark")
	}
	defer rows.Close()

	bookmarks := make([]Bookmark, 0, 1)
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.BookID, &b.PageNumber, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_bookmark")
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "resolve_bookmark_rows")
	}

	switch len(bookmarks) {
	case 0:
		return nil, apperr.NotFound("Bookmark")
	case 1:
		return &bookmarks[0], nil
	default:
		return nil, apperr.Integrity(
			fmt.Sprintf("Found %d bookmarks for one reader and book", len(bookmarks)), nil,
		)
	}
}

// ListBookmarks returns a reader's bookmarks, most recently updated first.
func (repository *PostgresRepository) ListBookmarks(context context.Context, userID string) ([]Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.LibraryBookmark.ID, schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID,
		schema.LibraryBookmark.PageNumber, schema.LibraryBookmark.CreatedAt, schema.LibraryBookmark.UpdatedAt,
		schema.LibraryBookmark.Table,
		schema.LibraryBookmark.UserID, schema.LibraryBookmark.UpdatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_bookmarks")
	}
	defer rows.Close()

	bookmarks := make([]Bookmark, 0)
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.BookID, &b.PageNumber, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_bookmark")
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_bookmarks_rows")
	}

	return bookmarks, nil
}

// DeleteBookmark removes a bookmark. Zero affected rows is not an error.
func (repository *PostgresRepository) DeleteBookmark(context context.Context, userID, bookID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.LibraryBookmark.Table, schema.LibraryBookmark.UserID, schema.LibraryBookmark.BookID)

	_, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "delete_bookmark")
	}
	return nil
}

// # History

/*
UpsertHistory writes a completion record. On conflict with the
UNIQUE(userid, bookid) constraint, all mutable fields are overwritten as
given: writing a nil rating clears the stored one.
*/
func (repository *PostgresRepository) UpsertHistory(context context.Context, entry *HistoryEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		schema.LibraryHistory.Table,
		schema.LibraryHistory.ID, schema.LibraryHistory.UserID, schema.LibraryHistory.BookID,
		schema.LibraryHistory.CompletedAt, schema.LibraryHistory.Rating, schema.LibraryHistory.Review,
		schema.LibraryHistory.CreatedAt, schema.LibraryHistory.UpdatedAt,
		schema.LibraryHistory.UserID, schema.LibraryHistory.BookID,
		schema.LibraryHistory.CompletedAt, schema.LibraryHistory.CompletedAt,
		schema.LibraryHistory.Rating, schema.LibraryHistory.Rating,
		schema.LibraryHistory.Review, schema.LibraryHistory.Review,
		schema.LibraryHistory.UpdatedAt, schema.LibraryHistory.UpdatedAt,
	)

	now := time.Now()
	entry.UpdatedAt = now
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.UserID, entry.BookID, entry.CompletedAt, entry.Rating, entry.Review, now,
	)
	if err != nil {
		return dberr.Wrap(err, "upsert_history")
	}

	return nil
}

// FindHistory returns the history entry for a (reader, book) pair.
func (repository *PostgresRepository) FindHistory(context context.Context, userID, bookID string) (*HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.LibraryHistory.ID, schema.LibraryHistory.UserID, schema.LibraryHistory.BookID,
		schema.LibraryHistory.CompletedAt, schema.LibraryHistory.Rating, schema.LibraryHistory.Review,
		schema.LibraryHistory.CreatedAt, schema.LibraryHistory.UpdatedAt,
		schema.LibraryHistory.Table,
		schema.LibraryHistory.UserID, schema.LibraryHistory.BookID,
	)

	var entry HistoryEntry
	err := repository.pool.QueryRow(context, query, userID, bookID).Scan(
		&entry.ID, &entry.UserID, &entry.BookID,
		&entry.CompletedAt, &entry.Rating, &entry.Review,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_history")
	}

	return &entry, nil
}

// ListHistory returns a reader's history, most recently updated first.
func (repository *PostgresRepository) ListHistory(context context.Context, userID string) ([]HistoryEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.LibraryHistory.ID, schema.LibraryHistory.UserID, schema.LibraryHistory.BookID,
		schema.LibraryHistory.CompletedAt, schema.LibraryHistory.Rating, schema.LibraryHistory.Review,
		schema.LibraryHistory.CreatedAt, schema.LibraryHistory.UpdatedAt,
		schema.LibraryHistory.Table,
		schema.LibraryHistory.UserID, schema.LibraryHistory.UpdatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_history")
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var entry HistoryEntry
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.BookID,
			&entry.CompletedAt, &entry.Rating, &entry.Review,
			&entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_history")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_history_rows")
	}

	return entries, nil
}

// DeleteHistory removes a history entry. Zero affected rows is not an error.
func (repository *PostgresRepository) DeleteHistory(context context.Context, userID, bookID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.LibraryHistory.Table, schema.LibraryHistory.UserID, schema.LibraryHistory.BookID)

	_, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "delete_history")
	}
	return nil
}

// # Favorites

// AddFavorite marks a book as loved. ON CONFLICT DO NOTHING keeps the call
// idempotent.
func (repository *PostgresRepository) AddFavorite(context context.Context, favorite *Favorite) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.LibraryFavorite.Table,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID,
		schema.LibraryFavorite.BookID, schema.LibraryFavorite.CreatedAt,
		schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID,
	)

	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		favorite.ID, favorite.UserID, favorite.BookID, favorite.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "add_favorite")
	}

	return nil
}

// RemoveFavorite unmarks a book. Zero affected rows is not an error.
func (repository *PostgresRepository) RemoveFavorite(context context.Context, userID, bookID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.LibraryFavorite.Table, schema.LibraryFavorite.UserID, schema.LibraryFavorite.BookID)

	_, err := repository.pool.Exec(context, query, userID, bookID)
	if err != nil {
		return dberr.Wrap(err, "remove_favorite")
	}
	return nil
}

// ListFavorites returns a reader's favorites, most recently added first.
func (repository *PostgresRepository) ListFavorites(context context.Context, userID string) ([]Favorite, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.LibraryFavorite.ID, schema.LibraryFavorite.UserID,
		schema.LibraryFavorite.BookID, schema.LibraryFavorite.CreatedAt,
		schema.LibraryFavorite.Table,
		schema.LibraryFavorite.UserID, schema.LibraryFavorite.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	favorites := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.BookID, &f.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_favorite")
		}
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_favorites_rows")
	}

	return favorites, nil
}

// # Recommendation Inputs

// HistoryCategoryIDs returns the categories of every book in the reader's
// history, oldest entry first. Uncategorized books are skipped.
func (repository *PostgresRepository) HistoryCategoryIDs(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT b.%s
		FROM %s h
		JOIN %s b ON b.%s = h.%s
		WHERE h.%s = $1 AND b.%s IS NOT NULL
		ORDER BY h.%s ASC`,
		schema.CatalogBook.CategoryID,
		schema.LibraryHistory.Table,
		schema.CatalogBook.Table, schema.CatalogBook.ID, schema.LibraryHistory.BookID,
		schema.LibraryHistory.UserID, schema.CatalogBook.CategoryID,
		schema.LibraryHistory.CreatedAt,
	)

	return repository.queryCategoryIDs(context, query, userID, "history_category_ids")
}

// FavoriteCategoryIDs mirrors HistoryCategoryIDs for favorited books.
func (repository *PostgresRepository) FavoriteCategoryIDs(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT b.%s
		FROM %s f
		JOIN %s b ON b.%s = f.%s
		WHERE f.%s = $1 AND b.%s IS NOT NULL
		ORDER BY f.%s ASC`,
		schema.CatalogBook.CategoryID,
		schema.LibraryFavorite.Table,
		schema.CatalogBook.Table, schema.CatalogBook.ID, schema.LibraryFavorite.BookID,
		schema.LibraryFavorite.UserID, schema.CatalogBook.CategoryID,
		schema.LibraryFavorite.CreatedAt,
	)

	return repository.queryCategoryIDs(context, query, userID, "favorite_category_ids")
}

// queryCategoryIDs runs one of the category projections above.
func (repository *PostgresRepository) queryCategoryIDs(context context.Context, query, userID, operation string) ([]string, error) {
	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, operation)
	}
	defer rows.Close()

	categoryIDs := make([]string, 0)
	for rows.Next() {
		var categoryID string
		if err := rows.Scan(&categoryID); err != nil {
			return nil, dberr.Wrap(err, operation+"_scan")
		}
		categoryIDs = append(categoryIDs, categoryID)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, operation+"_rows")
	}

	return categoryIDs, nil
}

// recommendationSelect is the book projection used by the candidate queries.
func recommendationSelect() string {
	return fmt.Sprintf(`
		SELECT
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			(SELECT c.%s FROM %s c WHERE c.%s = b.%s),
			(SELECT COUNT(*) FROM %s p WHERE p.%s = b.%s)
		FROM %s b`,
		schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Description, schema.CatalogBook.CategoryID, schema.CatalogBook.Slug,
		schema.CatalogBook.CoverURL, schema.CatalogBook.FileURL, schema.CatalogBook.PublishYear,
		schema.CatalogBook.UploaderID, schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
		schema.CatalogCategory.Name, schema.CatalogCategory.Table,
		schema.CatalogCategory.ID, schema.CatalogBook.CategoryID,
		schema.CatalogPage.Table, schema.CatalogPage.BookID, schema.CatalogBook.ID,
		schema.CatalogBook.Table,
	)
}

// notReadClause excludes books already present in the reader's history.
func notReadClause(userParam string) string {
	return fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM %s h WHERE h.%s = %s AND h.%s = b.%s)",
		schema.LibraryHistory.Table, schema.LibraryHistory.UserID, userParam,
		schema.LibraryHistory.BookID, schema.CatalogBook.ID,
	)
}

/*
BooksInCategories returns unread books from the preferred categories,
newest first.
*/
func (repository *PostgresRepository) BooksInCategories(context context.Context, userID string, categoryIDs []string, limit int) ([]*book.Book, error) {
	query := recommendationSelect() + fmt.Sprintf(
		" WHERE b.%s = ANY($2) AND %s ORDER BY b.%s DESC, b.%s DESC LIMIT $3",
		schema.CatalogBook.CategoryID, notReadClause("$1"),
		schema.CatalogBook.CreatedAt, schema.CatalogBook.ID,
	)

	return repository.queryBooks(context, "books_in_categories", query, userID, categoryIDs, limit)
}

// RecentBooks returns the newest unread catalog books.
func (repository *PostgresRepository) RecentBooks(context context.Context, userID string, limit int) ([]*book.Book, error) {
	query := recommendationSelect() + fmt.Sprintf(
		" WHERE %s ORDER BY b.%s DESC, b.%s DESC LIMIT $2",
		notReadClause("$1"),
		schema.CatalogBook.CreatedAt, schema.CatalogBook.ID,
	)

	return repository.queryBooks(context, "recent_books", query, userID, limit)
}

// queryBooks executes a recommendation candidate query and hydrates books.
func (repository *PostgresRepository) queryBooks(context context.Context, operation, query string, args ...any) ([]*book.Book, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, operation)
	}
	defer rows.Close()

	books := make([]*book.Book, 0)
	for rows.Next() {
		b := &book.Book{}
		err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.CategoryID, &b.Slug,
			&b.CoverURL, &b.FileURL, &b.PublishYear, &b.UploaderID, &b.CreatedAt, &b.UpdatedAt,
			&b.Category, &b.PageCount,
		)
		if err != nil {
			return nil, dberr.Wrap(err, operation+"_scan")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, operation+"_rows")
	}

	return books, nil
}
