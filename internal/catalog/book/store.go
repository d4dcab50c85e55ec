// Copyright (c) 2026 BookHaven. All rights reserved.

package book

import "context"

// Repository defines the persistence contract for hosted books and pages.
type Repository interface {

	/*
		List returns a category-filtered, paginated slice of books plus the
		total count, newest first.

		Parameters:
		  - context: context.Context
		  - categoryID: string (empty = all categories)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Hydrated entities with resolved category names and page counts
		  - int: Total count matching the filter
		  - error: Database execution errors
	*/
	List(context context.Context, categoryID string, limit, offset int) ([]*Book, int, error)

	/*
		FindByID returns the book with the given ID.

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound or execution errors
	*/
	FindByID(context context.Context, id string) (*Book, error)

	/*
		FindBySlug returns the book with the given slug.

		Returns:
		  - *Book: Hydrated entity
		  - error: apperr.NotFound or execution errors
	*/
	FindBySlug(context context.Context, slug string) (*Book, error)

	// Create persists a new book.
	Create(context context.Context, book *Book) error

	// Update persists changes to mutable book fields.
	Update(context context.Context, book *Book) error

	// Delete removes a book and, through cascades, its pages.
	Delete(context context.Context, id string) error

	/*
		ListPages returns all reading pages of a book ordered by page number.

		An empty slice means the book has no paginated content; the caller
		decides whether file-based reading applies instead.
	*/
	ListPages(context context.Context, bookID string) ([]Page, error)

	// ReplacePages atomically swaps the full page set of a book.
	ReplacePages(context context.Context, bookID string, pages []Page) error
}
