// Copyright (c) 2026 BookHaven. All rights reserved.

package book

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/bookhaven/bookhaven/internal/catalog/publicsearch"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
	"github.com/bookhaven/bookhaven/internal/storage"
	"github.com/bookhaven/bookhaven/pkg/pagination"
	"github.com/bookhaven/bookhaven/pkg/slug"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

// searchScanLimit caps how many local rows a text search pulls before the
// in-memory match. Text matching happens after retrieval, so searches scan a
// bounded window rather than the whole catalog.
const searchScanLimit = 500

// PublicSearcher is the external discovery source merged into text searches.
type PublicSearcher interface {
	Search(ctx context.Context, text string) ([]publicsearch.Result, error)
	Enabled() bool
}

// Service orchestrates catalog browsing, search, and content management.
type Service struct {
	repo        Repository
	public      PublicSearcher
	objectStore storage.ObjectStore
	logger      *slog.Logger
}

// NewService constructs the catalog [Service].
func NewService(repo Repository, public PublicSearcher, objectStore storage.ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		public:      public,
		objectStore: objectStore,
		logger:      logger,
	}
}

// # Browsing & Search

/*
ListBooks returns one page of catalog entries for the given filter.

Description: Without search text this is a plain paginated listing. With
search text, the service retrieves a candidate window, applies a
case-insensitive substring match on title OR author, appends matching public
volumes after the local results, and paginates the merged union. A failing
public source degrades silently: local results still come back.

Parameters:
  - context: context.Context
  - filter: Filter (CategoryID, SearchText)
  - params: pagination.Params

Returns:
  - []Entry: One page of the (possibly merged) result set
  - pagination.Meta: Totals for the full result set
  - error: Local retrieval failures only
*/
func (service *Service) ListBooks(context context.Context, filter Filter, params pagination.Params) ([]Entry, pagination.Meta, error) {
	if strings.TrimSpace(filter.SearchText) == "" {
		return service.browse(context, filter.CategoryID, params)
	}
	return service.search(context, filter, params)
}

// browse is the non-search path: filtering and pagination stay in SQL.
func (service *Service) browse(context context.Context, categoryID string, params pagination.Params) ([]Entry, pagination.Meta, error) {
	books, total, err := service.repo.List(context, categoryID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	entries := make([]Entry, 0, len(books))
	for _, b := range books {
		entries = append(entries, Entry{Source: SourceLocal, Book: b})
	}

	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// search retrieves a candidate window, text-matches it in memory, merges the
// public source, and paginates the union.
func (service *Service) search(context context.Context, filter Filter, params pagination.Params) ([]Entry, pagination.Meta, error) {
	books, _, err := service.repo.List(context, filter.CategoryID, searchScanLimit, 0)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(filter.SearchText))

	merged := make([]Entry, 0)
	for _, b := range books {
		if matchesText(b.Title, b.Author, needle) {
			merged = append(merged, Entry{Source: SourceLocal, Book: b})
		}
	}

	// Public volumes always follow the local results. Upstream failure is
	// logged and swallowed: discovery is best-effort.
	if service.public != nil && service.public.Enabled() {
		results, err := service.public.Search(context, filter.SearchText)
		if err != nil {
			service.logger.Warn("public_search_degraded", slog.String("error", err.Error()))
		}
		for _, result := range results {
			if !matchesText(result.Title, strings.Join(result.Authors, " "), needle) {
				continue
			}
			merged = append(merged, Entry{Source: SourcePublic, Public: &PublicVolume{
				Title:       result.Title,
				Authors:     result.Authors,
				Description: result.Description,
				CoverURL:    result.CoverURL,
				InfoURL:     result.InfoURL,
			}})
		}
	}

	total := len(merged)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	return merged[start:end], pagination.NewMeta(params.Page, params.Limit, total), nil
}

// matchesText reports whether the lowercase needle appears in the title or
// the author string.
func matchesText(title, author, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), needle) ||
		strings.Contains(strings.ToLower(author), needle)
}

// # Detail & Content

// GetBook returns one hosted book by ID.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.repo.FindByID(context, id)
}

// GetBookBySlug returns one hosted book by slug.
func (service *Service) GetBookBySlug(context context.Context, bookSlug string) (*Book, error) {
	return service.repo.FindBySlug(context, bookSlug)
}

/*
GetPages returns the ordered reading pages of a book.

Description: The book is resolved first so a missing title yields NotFound
rather than an empty page list. An existing book with no pages legitimately
returns an empty slice (file-based or content-less book).

Parameters:
  - context: context.Context
  - bookID: string

Returns:
  - []Page: Ordered pages, possibly empty
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetPages(context context.Context, bookID string) ([]Page, error) {
	if _, err := service.repo.FindByID(context, bookID); err != nil {
		return nil, err
	}
	return service.repo.ListPages(context, bookID)
}

// # Content Management

// CreateInput holds the metadata for a new hosted book.
type CreateInput struct {
	Title       string
	Author      string
	Description *string
	CategoryID  *string
	PublishYear *int
	UploaderID  string
}

/*
CreateBook validates and persists a new hosted book.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Book: Created entity with a generated slug
  - error: Validation or persistence failures
*/
func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	v := &validate.Validator{}
	v.Required("title", input.Title).MaxLen("title", input.Title, 200).
		Required("author", input.Author).MaxLen("author", input.Author, 120)
	if input.PublishYear != nil {
		v.Range("publish_year", *input.PublishYear, 1000, 2100)
	}
	if input.CategoryID != nil {
		v.UUID("category_id", *input.CategoryID)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	book := &Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Slug:        slug.From(input.Title),
		PublishYear: input.PublishYear,
		UploaderID:  input.UploaderID,
	}

	if err := service.repo.Create(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("slug", book.Slug),
	)

	return book, nil
}

// UpdateInput holds the mutable subset of book metadata.
type UpdateInput struct {
	Title       *string
	Author      *string
	Description *string
	CategoryID  *string
	PublishYear *int
}

// UpdateBook applies a partial metadata update to a hosted book.
func (service *Service) UpdateBook(context context.Context, id string, input UpdateInput) (*Book, error) {
	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		book.Title = *input.Title
		book.Slug = slug.From(*input.Title)
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	if input.CategoryID != nil {
		book.CategoryID = input.CategoryID
	}
	if input.PublishYear != nil {
		book.PublishYear = input.PublishYear
	}

	v := &validate.Validator{}
	v.Required("title", book.Title).MaxLen("title", book.Title, 200).
		Required("author", book.Author).MaxLen("author", book.Author, 120)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, book); err != nil {
		return nil, err
	}

	return book, nil
}

// DeleteBook removes a hosted book and its stored objects.
func (service *Service) DeleteBook(context context.Context, id string) error {
	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	// Orphaned objects are cleaned up best-effort after the row is gone.
	for _, objectURL := range []string{book.CoverURL, book.FileURL} {
		if key, ok := storageKey(objectURL); ok {
			_ = service.objectStore.Remove(context, key)
		}
	}

	service.logger.Info("book_deleted", slog.String("book_id", id))

	return nil
}

/*
UploadCover stores a cover image for the book and links it.

Parameters:
  - context: context.Context
  - bookID: string
  - fileName: string (original upload name, used for the extension)
  - content: io.Reader

Returns:
  - *Book: Book with the refreshed cover URL
  - error: Storage or persistence failures
*/
func (service *Service) UploadCover(context context.Context, bookID, fileName string, content io.Reader) (*Book, error) {
	return service.attachObject(context, bookID, "covers/", fileName, content, func(b *Book, url string) {
		b.CoverURL = url
	})
}

/*
UploadFile stores the downloadable book file (PDF/EPUB) and links it.

Books with a file and no pages are read through the file viewer.

Parameters:
  - context: context.Context
  - bookID: string
  - fileName: string
  - content: io.Reader

Returns:
  - *Book: Book with the refreshed file URL
  - error: Storage or persistence failures
*/
func (service *Service) UploadFile(context context.Context, bookID, fileName string, content io.Reader) (*Book, error) {
	return service.attachObject(context, bookID, "books/", fileName, content, func(b *Book, url string) {
		b.FileURL = url
	})
}

// attachObject streams an upload into object storage and persists its public
// URL on the book via the provided setter.
func (service *Service) attachObject(context context.Context, bookID, prefix, fileName string, content io.Reader, set func(*Book, string)) (*Book, error) {
	book, err := service.repo.FindByID(context, bookID)
	if err != nil {
		return nil, err
	}

	key := prefix + uuid.New() + path.Ext(fileName)
	if _, err := service.objectStore.Save(context, key, content); err != nil {
		return nil, err
	}

	set(book, service.objectStore.PublicURL(key))

	if err := service.repo.Update(context, book); err != nil {
		_ = service.objectStore.Remove(context, key)
		return nil, err
	}

	return book, nil
}

/*
ReplacePages swaps a book's full paginated content.

Description: Page numbers are assigned sequentially from 1 in the order
given, so callers cannot create gaps or duplicates.

Parameters:
  - context: context.Context
  - bookID: string
  - contents: []string (one element per page, in reading order)

Returns:
  - error: NotFound or persistence failures
*/
func (service *Service) ReplacePages(context context.Context, bookID string, contents []string) error {
	if _, err := service.repo.FindByID(context, bookID); err != nil {
		return err
	}

	pages := make([]Page, 0, len(contents))
	for i, content := range contents {
		pages = append(pages, Page{
			ID:         uuid.New(),
			BookID:     bookID,
			PageNumber: i + 1,
			Content:    content,
		})
	}

	if err := service.repo.ReplacePages(context, bookID, pages); err != nil {
		return err
	}

	service.logger.Info("book_pages_replaced",
		slog.String("book_id", bookID),
		slog.Int("page_count", len(pages)),
	)

	return nil
}

// storageKey recovers an object key from a URL served by the static mount.
func storageKey(url string) (string, bool) {
	for _, marker := range []string{"/covers/", "/books/"} {
		if idx := strings.Index(url, marker); idx >= 0 {
			return url[idx+1:], true
		}
	}
	return "", false
}
