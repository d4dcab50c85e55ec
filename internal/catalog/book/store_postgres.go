// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package book (Postgres) implements the catalog's data access layer.

It keeps listing queries to a single round-trip:
  - Window Function: COUNT(*) OVER() retrieves the total alongside each row.
  - Scalar Subqueries: Category names and page counts come back with the book.
*/
package book

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/bookhaven/internal/platform/database/schema"
	"github.com/bookhaven/bookhaven/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed book store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// bookSelect is the shared projection for book queries. The category name and
// page count ride along as scalar subqueries.
func bookSelect() string {
	return fmt.Sprintf(`
		SELECT
			b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
			(SELECT c.%s FROM %s c WHERE c.%s = b.%s),
			(SELECT COUNT(*) FROM %s p WHERE p.%s = b.%s)`,
		schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Description, schema.CatalogBook.CategoryID, schema.CatalogBook.Slug,
		schema.CatalogBook.CoverURL, schema.CatalogBook.FileURL, schema.CatalogBook.PublishYear,
		schema.CatalogBook.UploaderID, schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
		schema.CatalogCategory.Name, schema.CatalogCategory.Table,
		schema.CatalogCategory.ID, schema.CatalogBook.CategoryID,
		schema.CatalogPage.Table, schema.CatalogPage.BookID, schema.CatalogBook.ID,
	)
}

// scanBook hydrates one row from the shared projection.
func scanBook(row pgx.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Description, &b.CategoryID, &b.Slug,
		&b.CoverURL, &b.FileURL, &b.PublishYear, &b.UploaderID, &b.CreatedAt, &b.UpdatedAt,
		&b.Category, &b.PageCount,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

/*
List returns a category-filtered, paginated slice of books plus the total
count, ordered newest first.

Parameters:
  - context: context.Context
  - categoryID: string (empty = all categories)
  - limit: int
  - offset: int

Returns:
  - []*Book: Hydrated entities
  - int: Total count matching the filter
  - error: Execution errors
*/
func (repository *PostgresRepository) List(context context.Context, categoryID string, limit, offset int) ([]*Book, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(bookSelect())
	queryBuilder.WriteString(fmt.Sprintf(", COUNT(*) OVER() AS total_count FROM %s b WHERE TRUE", schema.CatalogBook.Table))

	if categoryID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND b.%s = $%d", schema.CatalogBook.CategoryID, argID))
		args = append(args, categoryID)
		argID++
	}

	// Newest additions first, ID as the stable tie-breaker
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s DESC, b.%s DESC", schema.CatalogBook.CreatedAt, schema.CatalogBook.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_books")
	}
	defer rows.Close()

	books := make([]*Book, 0)
	totalCount := 0

	for rows.Next() {
		b := &Book{}
		err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Description, &b.CategoryID, &b.Slug,
			&b.CoverURL, &b.FileURL, &b.PublishYear, &b.UploaderID, &b.CreatedAt, &b.UpdatedAt,
			&b.Category, &b.PageCount, &totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_book")
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_books_rows")
	}

	return books, totalCount, nil
}

/*
FindByID returns the book with the given ID.

Returns:
  - *Book: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := bookSelect() + fmt.Sprintf(" FROM %s b WHERE b.%s = $1", schema.CatalogBook.Table, schema.CatalogBook.ID)

	book, err := scanBook(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_id")
	}
	return book, nil
}

/*
FindBySlug returns the book with the given slug.

Returns:
  - *Book: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Book, error) {
	query := bookSelect() + fmt.Sprintf(" FROM %s b WHERE b.%s = $1", schema.CatalogBook.Table, schema.CatalogBook.Slug)

	book, err := scanBook(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_book_by_slug")
	}
	return book, nil
}

// Create persists a new book.
func (repository *PostgresRepository) Create(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		schema.CatalogBook.Table,
		schema.CatalogBook.ID, schema.CatalogBook.Title, schema.CatalogBook.Author,
		schema.CatalogBook.Description, schema.CatalogBook.CategoryID, schema.CatalogBook.Slug,
		schema.CatalogBook.CoverURL, schema.CatalogBook.FileURL, schema.CatalogBook.PublishYear,
		schema.CatalogBook.UploaderID, schema.CatalogBook.CreatedAt, schema.CatalogBook.UpdatedAt,
	)

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		book.ID, book.Title, book.Author, book.Description, book.CategoryID, book.Slug,
		book.CoverURL, book.FileURL, book.PublishYear, book.UploaderID, book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_book")
	}

	return nil
}

// Update persists changes to mutable book fields.
func (repository *PostgresRepository) Update(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1`,
		schema.CatalogBook.Table,
		schema.CatalogBook.Title, schema.CatalogBook.Author, schema.CatalogBook.Description,
		schema.CatalogBook.CategoryID, schema.CatalogBook.Slug, schema.CatalogBook.CoverURL,
		schema.CatalogBook.FileURL, schema.CatalogBook.PublishYear, schema.CatalogBook.UpdatedAt,
		schema.CatalogBook.ID,
	)

	book.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		book.ID, book.Title, book.Author, book.Description, book.CategoryID, book.Slug,
		book.CoverURL, book.FileURL, book.PublishYear, book.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_book")
	}

	return nil
}

// Delete removes a book. Pages and library rows follow via ON DELETE CASCADE.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CatalogBook.Table, schema.CatalogBook.ID)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_book")
	}
	return nil
}

/*
ListPages returns all reading pages of a book ordered by page number.

Returns:
  - []Page: Ordered pages; empty when the book has no paginated content
  - error: Execution errors
*/
func (repository *PostgresRepository) ListPages(context context.Context, bookID string) ([]Page, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC`,
		schema.CatalogPage.ID, schema.CatalogPage.BookID,
		schema.CatalogPage.PageNumber, schema.CatalogPage.Content,
		schema.CatalogPage.Table, schema.CatalogPage.BookID, schema.CatalogPage.PageNumber,
	)

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pages")
	}
	defer rows.Close()

	pages := make([]Page, 0)
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.BookID, &p.PageNumber, &p.Content); err != nil {
			return nil, dberr.Wrap(err, "scan_page")
		}
		pages = append(pages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_pages_rows")
	}

	return pages, nil
}

/*
ReplacePages atomically swaps the full page set of a book inside a transaction.

Parameters:
  - context: context.Context
  - bookID: string
  - pages: []Page (PageNumber and Content must be populated)

Returns:
  - error: Transactional failures
*/
func (repository *PostgresRepository) ReplacePages(context context.Context, bookID string, pages []Page) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "replace_pages_begin")
	}
	defer tx.Rollback(context)

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CatalogPage.Table, schema.CatalogPage.BookID)
	if _, err := tx.Exec(context, deleteQuery, bookID); err != nil {
		return dberr.Wrap(err, "replace_pages_delete")
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)",
		schema.CatalogPage.Table,
		schema.CatalogPage.ID, schema.CatalogPage.BookID,
		schema.CatalogPage.PageNumber, schema.CatalogPage.Content)

	for _, page := range pages {
		if _, err := tx.Exec(context, insertQuery, page.ID, bookID, page.PageNumber, page.Content); err != nil {
			return dberr.Wrap(err, "replace_pages_insert")
		}
	}

	if err := tx.Commit(context); err != nil {
		return dberr.Wrap(err, "replace_pages_commit")
	}

	return nil
}
