// Copyright (c) 2026 BookHaven. All rights reserved.

package progress

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/catalog/book"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/pkg/pointer"
)

// # Pure Function Tests

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"zero total", 10, 0, 0},
		{"negative total", 10, -5, 0},
		{"start of book", 1, 200, 1},
		{"halfway", 100, 200, 50},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
		{"finished", 200, 200, 100},
		{"position past the end clamps", 250, 200, 100},
		{"zero position", 0, 200, 0},
		{"negative position clamps", -5, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressPercent(tt.current, tt.total))
		})
	}
}

func TestRankPreferredCategories(t *testing.T) {
	t.Run("history counts double", func(t *testing.T) {
		// fantasy: 1 history hit = 2 points; scifi: 1 favorite hit = 1 point
		ranked := RankPreferredCategories([]string{"fantasy"}, []string{"scifi"})
		assert.Equal(t, []string{"fantasy", "scifi"}, ranked)
	})

	t.Run("favorites can outweigh a single completion", func(t *testing.T) {
		// scifi: 3 favorites = 3 points; fantasy: 1 history = 2 points
		ranked := RankPreferredCategories([]string{"fantasy"}, []string{"scifi", "scifi", "scifi"})
		assert.Equal(t, []string{"scifi", "fantasy"}, ranked)
	})

	t.Run("ties keep first seen order", func(t *testing.T) {
		// Both score 2. "mystery" appears first in history, so it wins the tie.
		ranked := RankPreferredCategories([]string{"mystery", "horror"}, nil)
		assert.Equal(t, []string{"mystery", "horror"}, ranked)

		// Reversed input reverses the outcome: the ordering is positional, not lexical.
		ranked = RankPreferredCategories([]string{"horror", "mystery"}, nil)
		assert.Equal(t, []string{"horror", "mystery"}, ranked)
	})

	t.Run("history positions rank before favorite positions on ties", func(t *testing.T) {
		// zeta: 2 points from history; alpha: 2 points from favorites.
		// History is scanned first, so zeta was seen first.
		ranked := RankPreferredCategories([]string{"zeta"}, []string{"alpha", "alpha"})
		assert.Equal(t, []string{"zeta", "alpha"}, ranked)
	})

	t.Run("caps at three categories", func(t *testing.T) {
		ranked := RankPreferredCategories(
			[]string{"a", "a", "a", "b", "b", "c", "c", "d"},
			[]string{"e"},
		)
		assert.Equal(t, []string{"a", "b", "c"}, ranked)
	})

	t.Run("no signal yields nothing", func(t *testing.T) {
		assert.Empty(t, RankPreferredCategories(nil, nil))
	})

	t.Run("blank category ids are skipped", func(t *testing.T) {
		ranked := RankPreferredCategories([]string{"", "fantasy"}, []string{""})
		assert.Equal(t, []string{"fantasy"}, ranked)
	})
}

// # Service Tests

type pairKey struct{ userID, bookID string }

// fakeRepository is an in-memory [Repository] honoring the natural-key
// semantics of the real store.
type fakeRepository struct {
	bookmarks map[pairKey][]Bookmark // slice so tests can inject duplicates
	history   map[pairKey]*HistoryEntry
	favorites map[pairKey]*Favorite

	historyCategories  []string
	favoriteCategories []string
	categoryBooks      []*book.Book
	recentBooks        []*book.Book
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		bookmarks: make(map[pairKey][]Bookmark),
		history:   make(map[pairKey]*HistoryEntry),
		favorites: make(map[pairKey]*Favorite),
	}
}

func (f *fakeRepository) UpsertBookmark(_ context.Context, bookmark *Bookmark) error {
	key := pairKey{bookmark.UserID, bookmark.BookID}
	now := time.Now()

	if existing := f.bookmarks[key]; len(existing) > 0 {
		existing[0].PageNumber = bookmark.PageNumber
		existing[0].UpdatedAt = now
		return nil
	}

	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now
	f.bookmarks[key] = []Bookmark{*bookmark}
	return nil
}

func (f *fakeRepository) ResolveBookmark(_ context.Context, userID, bookID string) (*Bookmark, error) {
	matched := f.bookmarks[pairKey{userID, bookID}]
	switch len(matched) {
	case 0:
		return nil, apperr.NotFound("Bookmark")
	case 1:
		b := matched[0]
		return &b, nil
	default:
		return nil, apperr.Integrity("Found 2 bookmarks for one reader and book", nil)
	}
}

func (f *fakeRepository) ListBookmarks(_ context.Context, userID string) ([]Bookmark, error) {
	out := make([]Bookmark, 0)
	for key, list := range f.bookmarks {
		if key.userID == userID {
			out = append(out, list...)
		}
	}
	return out, nil
}

func (f *fakeRepository) DeleteBookmark(_ context.Context, userID, bookID string) error {
	delete(f.bookmarks, pairKey{userID, bookID})
	return nil
}

func (f *fakeRepository) UpsertHistory(_ context.Context, entry *HistoryEntry) error {
	copied := *entry
	f.history[pairKey{entry.UserID, entry.BookID}] = &copied
	return nil
}

func (f *fakeRepository) FindHistory(_ context.Context, userID, bookID string) (*HistoryEntry, error) {
	entry, ok := f.history[pairKey{userID, bookID}]
	if !ok {
		return nil, apperr.NotFound("History entry")
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRepository) ListHistory(_ context.Context, userID string) ([]HistoryEntry, error) {
	out := make([]HistoryEntry, 0)
	for key, entry := range f.history {
		if key.userID == userID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (f *fakeRepository) DeleteHistory(_ context.Context, userID, bookID string) error {
	delete(f.history, pairKey{userID, bookID})
	return nil
}

func (f *fakeRepository) AddFavorite(_ context.Context, favorite *Favorite) error {
	key := pairKey{favorite.UserID, favorite.BookID}
	if _, exists := f.favorites[key]; exists {
		return nil
	}
	f.favorites[key] = favorite
	return nil
}

func (f *fakeRepository) RemoveFavorite(_ context.Context, userID, bookID string) error {
	delete(f.favorites, pairKey{userID, bookID})
	return nil
}

func (f *fakeRepository) ListFavorites(_ context.Context, userID string) ([]Favorite, error) {
	out := make([]Favorite, 0)
	for key, favorite := range f.favorites {
		if key.userID == userID {
			out = append(out, *favorite)
		}
	}
	return out, nil
}

func (f *fakeRepository) HistoryCategoryIDs(_ context.Context, _ string) ([]string, error) {
	return f.historyCategories, nil
}

func (f *fakeRepository) FavoriteCategoryIDs(_ context.Context, _ string) ([]string, error) {
	return f.favoriteCategories, nil
}

func (f *fakeRepository) BooksInCategories(_ context.Context, _ string, _ []string, limit int) ([]*book.Book, error) {
	if len(f.categoryBooks) > limit {
		return f.categoryBooks[:limit], nil
	}
	return f.categoryBooks, nil
}

func (f *fakeRepository) RecentBooks(_ context.Context, _ string, limit int) ([]*book.Book, error) {
	if len(f.recentBooks) > limit {
		return f.recentBooks[:limit], nil
	}
	return f.recentBooks, nil
}

// fakeBookFinder resolves canned catalog books.
type fakeBookFinder struct {
	books map[string]*book.Book
}

func (f *fakeBookFinder) FindByID(_ context.Context, id string) (*book.Book, error) {
	if b, ok := f.books[id]; ok {
		return b, nil
	}
	return nil, apperr.NotFound("Book")
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	finder := &fakeBookFinder{books: map[string]*book.Book{
		"paged": {ID: "paged", Title: "Paged Novel", PageCount: 100},
		"pdf":   {ID: "pdf", Title: "Scanned Archive", FileURL: "/static/books/archive.pdf"},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, finder, logger), repo
}

func TestService_SetBookmark_Upserts(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	first, err := service.SetBookmark(ctx, "u1", "paged", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, first.PageNumber)

	// Saving again moves the same bookmark instead of adding one
	second, err := service.SetBookmark(ctx, "u1", "paged", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, second.PageNumber)
	assert.Equal(t, first.ID, second.ID)

	require.Len(t, repo.bookmarks[pairKey{"u1", "paged"}], 1)
}

func TestService_SetBookmark_ValidatesPageRange(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.SetBookmark(ctx, "u1", "paged", 0)
	assert.Error(t, err)

	_, err = service.SetBookmark(ctx, "u1", "paged", 101)
	assert.Error(t, err)

	// File-based books have no page count, so any positive position is fine
	_, err = service.SetBookmark(ctx, "u1", "pdf", 9999)
	assert.NoError(t, err)

	_, err = service.SetBookmark(ctx, "u1", "pdf", 0)
	assert.Error(t, err)

	_, err = service.SetBookmark(ctx, "u1", "missing", 1)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_GetBookmark_DuplicateRowsAreIntegrityViolations(t *testing.T) {
	service, repo := newTestService()

	key := pairKey{"u1", "paged"}
	repo.bookmarks[key] = []Bookmark{
		{ID: "bm1", UserID: "u1", BookID: "paged", PageNumber: 5},
		{ID: "bm2", UserID: "u1", BookID: "paged", PageNumber: 9},
	}

	_, err := service.GetBookmark(context.Background(), "u1", "paged")
	require.Error(t, err)
	assert.Equal(t, "INTEGRITY_VIOLATION", apperr.As(err).Code)
}

func TestService_DeleteBookmark_Idempotent(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.SetBookmark(ctx, "u1", "paged", 10)
	require.NoError(t, err)

	require.NoError(t, service.DeleteBookmark(ctx, "u1", "paged"))
	// Second delete of the same bookmark still succeeds
	require.NoError(t, service.DeleteBookmark(ctx, "u1", "paged"))

	_, err = service.GetBookmark(ctx, "u1", "paged")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_GetProgress(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	// No bookmark yet: zero percent
	progress, err := service.GetProgress(ctx, "u1", "paged")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Percent)

	_, err = service.SetBookmark(ctx, "u1", "paged", 50)
	require.NoError(t, err)

	progress, err = service.GetProgress(ctx, "u1", "paged")
	require.NoError(t, err)
	assert.Equal(t, 50, progress.Percent)
	assert.Equal(t, 100, progress.PageCount)

	// File-based book: position exists but length does not
	_, err = service.SetBookmark(ctx, "u1", "pdf", 30)
	require.NoError(t, err)

	progress, err = service.GetProgress(ctx, "u1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Percent)
}

func TestService_MarkCompleted_PreservesRatingAndReview(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	_, err := service.SetRating(ctx, "u1", "paged", pointer.To(4))
	require.NoError(t, err)

	entry, err := service.MarkCompleted(ctx, "u1", "paged")
	require.NoError(t, err)
	require.NotNil(t, entry.CompletedAt)
	require.NotNil(t, entry.Rating)
	assert.Equal(t, 4, *entry.Rating)

	// One row per (reader, book), not one per action
	require.Len(t, repo.history, 1)
}

func TestService_SetRating(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.SetRating(ctx, "u1", "paged", pointer.To(0))
	assert.Error(t, err)
	_, err = service.SetRating(ctx, "u1", "paged", pointer.To(6))
	assert.Error(t, err)

	entry, err := service.SetRating(ctx, "u1", "paged", pointer.To(5))
	require.NoError(t, err)
	assert.Equal(t, 5, *entry.Rating)

	// Clearing the rating keeps the entry
	entry, err = service.SetRating(ctx, "u1", "paged", nil)
	require.NoError(t, err)
	assert.Nil(t, entry.Rating)

	entries, err := service.ListHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestService_SetReview(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	entry, err := service.SetReview(ctx, "u1", "paged", pointer.To("A wonderful read."))
	require.NoError(t, err)
	require.NotNil(t, entry.Review)
	assert.Equal(t, "A wonderful read.", *entry.Review)

	// Reviewing without completing leaves no completion timestamp
	assert.Nil(t, entry.CompletedAt)
}

func TestService_Favorites_Idempotent(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.AddFavorite(ctx, "u1", "paged"))
	require.NoError(t, service.AddFavorite(ctx, "u1", "paged"))

	favorites, err := service.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)

	require.NoError(t, service.RemoveFavorite(ctx, "u1", "paged"))
	require.NoError(t, service.RemoveFavorite(ctx, "u1", "paged"))

	favorites, err = service.ListFavorites(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, favorites)

	err = service.AddFavorite(ctx, "u1", "missing")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_Recommendations_UsesPreferredCategories(t *testing.T) {
	service, repo := newTestService()

	repo.historyCategories = []string{"fantasy", "fantasy"}
	repo.favoriteCategories = []string{"scifi"}
	repo.categoryBooks = []*book.Book{{ID: "rec1"}, {ID: "rec2"}}
	repo.recentBooks = []*book.Book{{ID: "recent1"}}

	books, err := service.Recommendations(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, "rec1", books[0].ID)
}

func TestService_Recommendations_FallsBackToRecent(t *testing.T) {
	service, repo := newTestService()
	repo.recentBooks = []*book.Book{{ID: "recent1"}, {ID: "recent2"}}

	// No history, no favorites: newest catalog books
	books, err := service.Recommendations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "recent1", books[0].ID)

	// Preferences exist but every book in them is already read
	repo.historyCategories = []string{"fantasy"}
	repo.categoryBooks = nil

	books, err = service.Recommendations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, books, 2)
}

func TestService_Recommendations_CapsAtLimit(t *testing.T) {
	service, repo := newTestService()

	repo.historyCategories = []string{"fantasy"}
	for i := 0; i < 12; i++ {
		repo.categoryBooks = append(repo.categoryBooks, &book.Book{ID: string(rune('a' + i))})
	}

	books, err := service.Recommendations(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, books, 8)
}

