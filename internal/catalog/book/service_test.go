// Copyright (c) 2026 BookHaven. All rights reserved.

package book

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/catalog/publicsearch"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/pkg/pagination"
)

// fakeRepository is an in-memory [Repository] for service tests.
type fakeRepository struct {
	books []*Book
	pages map[string][]Page

	listCalls []int // limits passed to List, in order
}

func (f *fakeRepository) List(_ context.Context, categoryID string, limit, offset int) ([]*Book, int, error) {
	f.listCalls = append(f.listCalls, limit)

	matched := make([]*Book, 0)
	for _, b := range f.books {
		if categoryID != "" && (b.CategoryID == nil || *b.CategoryID != categoryID) {
			continue
		}
		matched = append(matched, b)
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*Book, error) {
	for _, b := range f.books {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, apperr.NotFound("Book")
}

func (f *fakeRepository) Create(_ context.Context, book *Book) error {
	f.books = append(f.books, book)
	return nil
}

func (f *fakeRepository) Update(_ context.Context, _ *Book) error { return nil }
func (f *fakeRepository) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeRepository) ListPages(_ context.Context, bookID string) ([]Page, error) {
	return f.pages[bookID], nil
}

func (f *fakeRepository) ReplacePages(_ context.Context, bookID string, pages []Page) error {
	if f.pages == nil {
		f.pages = make(map[string][]Page)
	}
	f.pages[bookID] = pages
	return nil
}

// fakeSearcher is a canned [PublicSearcher].
type fakeSearcher struct {
	results []publicsearch.Result
	err     error
	enabled bool
	called  bool
}

func (f *fakeSearcher) Search(_ context.Context, _ string) ([]publicsearch.Result, error) {
	f.called = true
	return f.results, f.err
}

func (f *fakeSearcher) Enabled() bool { return f.enabled }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func catalogFixture() *fakeRepository {
	return &fakeRepository{
		books: []*Book{
			{ID: "b1", Title: "The Go Programming Language", Author: "Alan Donovan", Slug: "the-go-programming-language"},
			{ID: "b2", Title: "Clean Architecture", Author: "Robert Martin", Slug: "clean-architecture"},
			{ID: "b3", Title: "Designing Data-Intensive Applications", Author: "Martin Kleppmann", Slug: "ddia"},
		},
	}
}

/*
TestService_ListBooks_Browse verifies that browsing without search text stays
a plain paginated listing of local entries.
*/
func TestService_ListBooks_Browse(t *testing.T) {
	repo := catalogFixture()
	searcher := &fakeSearcher{enabled: true}
	service := NewService(repo, searcher, nil, testLogger())

	entries, meta, err := service.ListBooks(context.Background(), Filter{}, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, SourceLocal, entries[0].Source)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	// Browsing never consults the public source
	assert.False(t, searcher.called)
}

/*
TestService_ListBooks_SearchMatchesTitleOrAuthor verifies the case-insensitive
substring match against both fields.
*/
func TestService_ListBooks_SearchMatchesTitleOrAuthor(t *testing.T) {
	repo := catalogFixture()
	service := NewService(repo, &fakeSearcher{}, nil, testLogger())

	// "martin" hits Robert Martin (author) and Martin Kleppmann (author)
	entries, meta, err := service.ListBooks(context.Background(), Filter{SearchText: "MARTIN"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "b2", entries[0].Book.ID)
	assert.Equal(t, "b3", entries[1].Book.ID)
	assert.Equal(t, 2, meta.Total)

	// Title match
	entries, _, err = service.ListBooks(context.Background(), Filter{SearchText: "go programming"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b1", entries[0].Book.ID)
}

/*
TestService_ListBooks_PublicAfterLocal verifies that public volumes are tagged
and always ordered after the hosted results.
*/
func TestService_ListBooks_PublicAfterLocal(t *testing.T) {
	repo := catalogFixture()
	searcher := &fakeSearcher{
		enabled: true,
		results: []publicsearch.Result{
			{Title: "Go in Action", Authors: []string{"William Kennedy"}},
			{Title: "Unrelated Cookbook", Authors: []string{"Someone"}},
		},
	}
	service := NewService(repo, searcher, nil, testLogger())

	entries, meta, err := service.ListBooks(context.Background(), Filter{SearchText: "go"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	// b1 matches locally, "Go in Action" matches publicly; the cookbook does not
	require.Len(t, entries, 2)
	assert.Equal(t, SourceLocal, entries[0].Source)
	assert.Equal(t, "b1", entries[0].Book.ID)
	assert.Equal(t, SourcePublic, entries[1].Source)
	assert.Equal(t, "Go in Action", entries[1].Public.Title)
	assert.Equal(t, 2, meta.Total)
}

/*
TestService_ListBooks_PublicFailureDegrades verifies that an upstream failure
never breaks the local search.
*/
func TestService_ListBooks_PublicFailureDegrades(t *testing.T) {
	repo := catalogFixture()
	searcher := &fakeSearcher{enabled: true, err: errors.New("upstream down")}
	service := NewService(repo, searcher, nil, testLogger())

	entries, _, err := service.ListBooks(context.Background(), Filter{SearchText: "go"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, SourceLocal, entries[0].Source)
}

/*
TestService_ListBooks_PublicDisabled verifies the searcher is skipped entirely
when no upstream is configured.
*/
func TestService_ListBooks_PublicDisabled(t *testing.T) {
	repo := catalogFixture()
	searcher := &fakeSearcher{enabled: false, results: []publicsearch.Result{{Title: "Go Ghost"}}}
	service := NewService(repo, searcher, nil, testLogger())

	entries, _, err := service.ListBooks(context.Background(), Filter{SearchText: "go"}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.False(t, searcher.called)
}

/*
TestService_GetPages verifies page retrieval and the NotFound guard.
*/
func TestService_GetPages(t *testing.T) {
	repo := catalogFixture()
	repo.pages = map[string][]Page{
		"b1": {{PageNumber: 1, Content: "first"}, {PageNumber: 2, Content: "second"}},
	}
	service := NewService(repo, &fakeSearcher{}, nil, testLogger())

	pages, err := service.GetPages(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, pages, 2)

	// File-based books legitimately have zero pages
	pages, err = service.GetPages(context.Background(), "b2")
	require.NoError(t, err)
	assert.Empty(t, pages)

	_, err = service.GetPages(context.Background(), "missing")
	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

/*
TestService_CreateBook verifies validation and slug generation.
*/
func TestService_CreateBook(t *testing.T) {
	repo := &fakeRepository{}
	service := NewService(repo, &fakeSearcher{}, nil, testLogger())

	book, err := service.CreateBook(context.Background(), CreateInput{
		Title:      "The Pragmatic Programmer",
		Author:     "Andrew Hunt",
		UploaderID: "u1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "the-pragmatic-programmer", book.Slug)
	require.Len(t, repo.books, 1)

	_, err = service.CreateBook(context.Background(), CreateInput{Author: "No Title"})
	assert.Error(t, err)
}

/*
TestService_ReplacePages verifies sequential page numbering from 1.
*/
func TestService_ReplacePages(t *testing.T) {
	repo := catalogFixture()
	service := NewService(repo, &fakeSearcher{}, nil, testLogger())

	err := service.ReplacePages(context.Background(), "b1", []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	pages := repo.pages["b1"]
	require.Len(t, pages, 3)
	for i, page := range pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.Equal(t, "b1", page.BookID)
	}
}
