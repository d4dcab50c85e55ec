// Copyright (c) 2026 BookHaven. All rights reserved.

package progress

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bookhaven/bookhaven/internal/catalog/book"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

// BookFinder resolves catalog books for validation. Satisfied by the catalog
// book repository.
type BookFinder interface {
	FindByID(ctx context.Context, id string) (*book.Book, error)
}

// Service orchestrates bookmarks, history, favorites, and recommendations.
type Service struct {
	repo   Repository
	books  BookFinder
	logger *slog.Logger
}

// NewService constructs the library [Service].
func NewService(repo Repository, books BookFinder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

// # Bookmarks

/*
SetBookmark saves or moves the reader's position in a book.

Description: The (reader, book) pair is the natural key, so saving twice
moves the existing bookmark instead of creating a second one. For paginated
books the position must fall inside [1, page count]; file-based books accept
any positive position since their length is not tracked.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - pageNumber: int

Returns:
  - *Bookmark: The saved position
  - error: NotFound for an unknown book, validation failures, or storage errors
*/
func (service *Service) SetBookmark(context context.Context, userID, bookID string, pageNumber int) (*Bookmark, error) {
	b, err := service.books.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	v := &validate.Validator{}
	if b.PageCount > 0 {
		v.Range("page_number", pageNumber, 1, b.PageCount)
	} else {
		v.Custom("page_number", pageNumber < 1, "Page number must be at least 1")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	bookmark := &Bookmark{
		ID:         uuid.New(),
		UserID:     userID,
		BookID:     bookID,
		PageNumber: pageNumber,
	}
	if err := service.repo.UpsertBookmark(context, bookmark); err != nil {
		return nil, err
	}

	// The upsert may have updated a pre-existing row; re-read for the
	// authoritative ID and timestamps.
	return service.repo.ResolveBookmark(context, userID, bookID)
}

// GetBookmark returns the reader's saved position in a book.
func (service *Service) GetBookmark(context context.Context, userID, bookID string) (*Bookmark, error) {
	return service.repo.ResolveBookmark(context, userID, bookID)
}

// ListBookmarks returns all of the reader's bookmarks.
func (service *Service) ListBookmarks(context context.Context, userID string) ([]Bookmark, error) {
	return service.repo.ListBookmarks(context, userID)
}

// DeleteBookmark removes the reader's bookmark on a book. Deleting a missing
// bookmark succeeds.
func (service *Service) DeleteBookmark(context context.Context, userID, bookID string) error {
	return service.repo.DeleteBookmark(context, userID, bookID)
}

/*
GetProgress reports how far through a book the reader is.

Description: The percentage comes from the bookmark position against the
book's page count. A reader with no bookmark is at 0 percent. Books without
paginated content always report 0 since there is no measurable length.

Returns:
  - *Progress: Position and percentage
  - error: NotFound for an unknown book, or storage errors
*/
func (service *Service) GetProgress(context context.Context, userID, bookID string) (*Progress, error) {
	b, err := service.books.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	pageNumber := 0
	bookmark, err := service.repo.ResolveBookmark(context, userID, bookID)
	switch {
	case err == nil:
		pageNumber = bookmark.PageNumber
	case isNotFound(err):
		// No bookmark yet: zero progress
	default:
		return nil, err
	}

	return &Progress{
		BookID:     bookID,
		PageNumber: pageNumber,
		PageCount:  b.PageCount,
		Percent:    ProgressPercent(pageNumber, b.PageCount),
	}, nil
}

// # History

/*
MarkCompleted records that the reader finished a book, stamping the
completion time. An existing rating or review on the entry is preserved.
*/
func (service *Service) MarkCompleted(context context.Context, userID, bookID string) (*HistoryEntry, error) {
	if _, err := service.books.FindByID(context, bookID); err != nil {
		return nil, err
	}

	entry, err := service.loadOrNewHistory(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry.CompletedAt = &now

	if err := service.repo.UpsertHistory(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("book_completed",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
	)

	return entry, nil
}

/*
SetRating stores the reader's star rating for a book.

Description: Ratings live on the history entry. A nil rating clears the
stored value but keeps the entry, so the completion record and any review
survive. Rating a book the reader has not completed creates an entry with no
completion timestamp.

Parameters:
  - context: context.Context
  - userID: string
  - bookID: string
  - rating: *int (1 to 5, or nil to clear)

Returns:
  - *HistoryEntry: The updated entry
  - error: Validation, NotFound, or storage errors
*/
func (service *Service) SetRating(context context.Context, userID, bookID string, rating *int) (*HistoryEntry, error) {
	if rating != nil {
		v := &validate.Validator{}
		v.Range("rating", *rating, 1, 5)
		if err := v.Err(); err != nil {
			return nil, err
		}
	}

	if _, err := service.books.FindByID(context, bookID); err != nil {
		return nil, err
	}

	entry, err := service.loadOrNewHistory(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	entry.Rating = rating

	if err := service.repo.UpsertHistory(context, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// SetReview stores the reader's written review, following the same
// entry-preserving rules as [Service.SetRating].
func (service *Service) SetReview(context context.Context, userID, bookID string, review *string) (*HistoryEntry, error) {
	if review != nil {
		v := &validate.Validator{}
		v.MaxLen("review", *review, 2000)
		if err := v.Err(); err != nil {
			return nil, err
		}
	}

	if _, err := service.books.FindByID(context, bookID); err != nil {
		return nil, err
	}

	entry, err := service.loadOrNewHistory(context, userID, bookID)
	if err != nil {
		return nil, err
	}

	entry.Review = review

	if err := service.repo.UpsertHistory(context, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListHistory returns the reader's full reading history.
func (service *Service) ListHistory(context context.Context, userID string) ([]HistoryEntry, error) {
	return service.repo.ListHistory(context, userID)
}

// DeleteHistory removes a history entry. Deleting a missing entry succeeds.
func (service *Service) DeleteHistory(context context.Context, userID, bookID string) error {
	return service.repo.DeleteHistory(context, userID, bookID)
}

// loadOrNewHistory fetches the reader's entry for a book, or builds a fresh
// one when none exists yet.
func (service *Service) loadOrNewHistory(context context.Context, userID, bookID string) (*HistoryEntry, error) {
	entry, err := service.repo.FindHistory(context, userID, bookID)
	if err == nil {
		return entry, nil
	}
	if isNotFound(err) {
		return &HistoryEntry{
			ID:     uuid.New(),
			UserID: userID,
			BookID: bookID,
		}, nil
	}
	return nil, err
}

// isNotFound reports whether err carries a 404 application error.
func isNotFound(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.HTTPStatus == http.StatusNotFound
}

// # Favorites

// AddFavorite marks a book as loved. Favoriting twice is a no-op.
func (service *Service) AddFavorite(context context.Context, userID, bookID string) error {
	if _, err := service.books.FindByID(context, bookID); err != nil {
		return err
	}

	return service.repo.AddFavorite(context, &Favorite{
		ID:     uuid.New(),
		UserID: userID,
		BookID: bookID,
	})
}

// RemoveFavorite unmarks a book. Removing a missing favorite succeeds.
func (service *Service) RemoveFavorite(context context.Context, userID, bookID string) error {
	return service.repo.RemoveFavorite(context, userID, bookID)
}

// ListFavorites returns the reader's favorites.
func (service *Service) ListFavorites(context context.Context, userID string) ([]Favorite, error) {
	return service.repo.ListFavorites(context, userID)
}

// # Recommendations

/*
Recommendations builds the reader's personalized feed.

Description: Category IDs from history (weight 2) and favorites (weight 1)
are scored by [RankPreferredCategories]; the top three categories supply up
to eight unread books, newest first. A reader with no preference signal, or
whose preferred categories hold nothing unread, falls back to the eight
newest unread books in the catalog.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*book.Book: Up to eight recommended books
  - error: Storage errors
*/
func (service *Service) Recommendations(context context.Context, userID string) ([]*book.Book, error) {
	historyCategories, err := service.repo.HistoryCategoryIDs(context, userID)
	if err != nil {
		return nil, err
	}
	favoriteCategories, err := service.repo.FavoriteCategoryIDs(context, userID)
	if err != nil {
		return nil, err
	}

	preferred := RankPreferredCategories(historyCategories, favoriteCategories)

	if len(preferred) > 0 {
		books, err := service.repo.BooksInCategories(context, userID, preferred, recommendationLimit)
		if err != nil {
			return nil, err
		}
		if len(books) > 0 {
			return books, nil
		}
	}

	return service.repo.RecentBooks(context, userID, recommendationLimit)
}
