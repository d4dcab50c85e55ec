// Copyright (c) 2026 BookHaven. All rights reserved.

package progress

import (
	"context"

	"github.com/bookhaven/bookhaven/internal/catalog/book"
)

// Repository defines the persistence contract for the reader library.
type Repository interface {

	// # Bookmarks

	/*
		UpsertBookmark saves or moves a reader's position in a book. The
		(userID, bookID) pair is the natural key: a second save for the same
		pair updates the existing row instead of inserting.
	*/
	UpsertBookmark(context context.Context, bookmark *Bookmark) error

	/*
		ResolveBookmark returns the single bookmark for a (reader, book) pair.

		Returns:
		  - *Bookmark: The saved position
		  - error: apperr.NotFound when none exists; apperr.Integrity when
		    more than one row matches the pair, since that breaks the
		    one-bookmark-per-book invariant
	*/
	ResolveBookmark(context context.Context, userID, bookID string) (*Bookmark, error)

	// ListBookmarks returns a reader's bookmarks, most recently updated first.
	ListBookmarks(context context.Context, userID string) ([]Bookmark, error)

	// DeleteBookmark removes a bookmark. Deleting a missing bookmark is a no-op.
	DeleteBookmark(context context.Context, userID, bookID string) error

	// # History

	/*
		UpsertHistory saves a completion record keyed by (userID, bookID).
		All mutable fields (CompletedAt, Rating, Review) are written as given,
		so a nil Rating clears any previous rating while keeping the row.
	*/
	UpsertHistory(context context.Context, entry *HistoryEntry) error

	// FindHistory returns the history entry for a (reader, book) pair.
	FindHistory(context context.Context, userID, bookID string) (*HistoryEntry, error)

	// ListHistory returns a reader's history, most recently updated first.
	ListHistory(context context.Context, userID string) ([]HistoryEntry, error)

	// DeleteHistory removes a history entry. Missing entries are a no-op.
	DeleteHistory(context context.Context, userID, bookID string) error

	// # Favorites

	// AddFavorite marks a book as loved. Adding an existing favorite is a no-op.
	AddFavorite(context context.Context, favorite *Favorite) error

	// RemoveFavorite unmarks a book. Removing a missing favorite is a no-op.
	RemoveFavorite(context context.Context, userID, bookID string) error

	// ListFavorites returns a reader's favorites, most recently added first.
	ListFavorites(context context.Context, userID string) ([]Favorite, error)

	// # Recommendation Inputs

	/*
		HistoryCategoryIDs returns the category IDs of every book in the
		reader's history, oldest entry first. Books without a category are
		skipped.
	*/
	HistoryCategoryIDs(context context.Context, userID string) ([]string, error)

	// FavoriteCategoryIDs mirrors HistoryCategoryIDs for favorited books.
	FavoriteCategoryIDs(context context.Context, userID string) ([]string, error)

	/*
		BooksInCategories returns up to limit books from the given categories
		that the reader has no history entry for, newest first.
	*/
	BooksInCategories(context context.Context, userID string, categoryIDs []string, limit int) ([]*book.Book, error)

	/*
		RecentBooks returns up to limit of the newest catalog books the reader
		has no history entry for. Used when no preference signal exists.
	*/
	RecentBooks(context context.Context, userID string, limit int) ([]*book.Book, error)
}
