// Copyright (c) 2026 BookHaven. All rights reserved.

package book

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/middleware"
	requestutil "github.com/bookhaven/bookhaven/internal/platform/request"
	"github.com/bookhaven/bookhaven/internal/platform/respond"
	"github.com/bookhaven/bookhaven/internal/platform/sec"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
	"github.com/bookhaven/bookhaven/pkg/pagination"
)

// Upload ceilings. Covers are images; book files may be full PDFs or EPUBs.
const (
	maxCoverSize = 5 << 20
	maxFileSize  = 50 << 20
)

// Handler implements the HTTP layer for the book catalog.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new catalog [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] configured with the catalog's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Browsing & Reading
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)
	router.Get("/by-slug/{slug}", handler.getBookBySlug)
	router.Get("/{id}/pages", handler.getPages)

	// Content Management (librarians only)
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleLibrarian))
		r.Post("/", handler.createBook)
		r.Put("/{id}", handler.updateBook)
		r.Delete("/{id}", handler.deleteBook)
		r.Post("/{id}/cover", handler.uploadCover)
		r.Post("/{id}/file", handler.uploadFile)
		r.Put("/{id}/pages", handler.replacePages)
	})

	return router
}

// # Browsing Endpoints

/*
GET /api/v1/books.

Description: Lists catalog entries with optional category filtering and
free-text search. Search responses interleave hosted books and public
volumes, with public results always after local ones.

Request:
  - page, limit: pagination query parameters
  - category: string (category UUID, optional)
  - search: string (matches title or author, optional)

Response:
  - 200: []Entry + pagination meta
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		CategoryID: request.URL.Query().Get("category"),
		SearchText: request.URL.Query().Get("search"),
	}

	entries, meta, err := handler.bookService.ListBooks(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

/*
GET /api/v1/books/{id}.

Response:
  - 200: Book: Hydrated catalog entry
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	book, err := handler.bookService.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
GET /api/v1/books/by-slug/{slug}.

Response:
  - 200: Book: Hydrated catalog entry
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) getBookBySlug(writer http.ResponseWriter, request *http.Request) {
	bookSlug := chi.URLParam(request, "slug")

	book, err := handler.bookService.GetBookBySlug(request.Context(), bookSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
GET /api/v1/books/{id}/pages.

Description: Returns the ordered reading pages. An empty list with a
populated file_url on the book means the client should open the file viewer.

Response:
  - 200: []Page: Ordered pages (possibly empty)
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) getPages(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	pages, err := handler.bookService.GetPages(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, pages)
}

// # Management Endpoints

// bookRequest defines the JSON payload for creating or updating a book.
type bookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	PublishYear *int    `json:"publish_year"`
}

/*
POST /api/v1/books.

Description: Creates a hosted book. The authenticated librarian becomes the
uploader of record.

Response:
  - 201: Book: Created entity
  - 400: Validation: Invalid metadata
  - 403: ErrForbidden: Librarian role required
*/
func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input bookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Custom("title", input.Title == nil, "Title is required").
		Custom("author", input.Author == nil, "Author is required")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.CreateBook(request.Context(), CreateInput{
		Title:       *input.Title,
		Author:      *input.Author,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		PublishYear: input.PublishYear,
		UploaderID:  userID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, book)
}

/*
PUT /api/v1/books/{id}.

Response:
  - 200: Book: Updated entity
  - 400: Validation: Invalid metadata
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input bookRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	book, err := handler.bookService.UpdateBook(request.Context(), id, UpdateInput{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		PublishYear: input.PublishYear,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

/*
DELETE /api/v1/books/{id}.

Response:
  - 204: No Content: Book and its content removed
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	if err := handler.bookService.DeleteBook(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/books/{id}/cover.

Request:
  - multipart/form-data with a single "cover" file field (max 5 MiB)

Response:
  - 200: Book: Book with the refreshed cover URL
  - 400: Validation: Missing or oversized file
*/
func (handler *Handler) uploadCover(writer http.ResponseWriter, request *http.Request) {
	handler.handleUpload(writer, request, "cover", maxCoverSize, handler.bookService.UploadCover)
}

/*
POST /api/v1/books/{id}/file.

Request:
  - multipart/form-data with a single "file" field (max 50 MiB)

Response:
  - 200: Book: Book with the refreshed file URL
  - 400: Validation: Missing or oversized file
*/
func (handler *Handler) uploadFile(writer http.ResponseWriter, request *http.Request) {
	handler.handleUpload(writer, request, "file", maxFileSize, handler.bookService.UploadFile)
}

// handleUpload is the shared multipart plumbing for cover and file uploads.
func (handler *Handler) handleUpload(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	maxSize int64,
	save func(ctx context.Context, bookID, fileName string, content io.Reader) (*Book, error),
) {
	id := requestutil.Param(request, "id")

	request.Body = http.MaxBytesReader(writer, request.Body, maxSize)
	if err := request.ParseMultipartForm(maxSize); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Upload exceeds the size limit"))
		return
	}

	file, header, err := request.FormFile(field)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(field, "File field is required"))
		return
	}
	defer file.Close()

	book, err := save(request.Context(), id, header.Filename, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// replacePagesRequest defines the JSON payload for a full page-set swap.
type replacePagesRequest struct {
	Pages []string `json:"pages"`
}

/*
PUT /api/v1/books/{id}/pages.

Description: Replaces the book's complete paginated content. Pages are
numbered sequentially in the order given.

Response:
  - 204: No Content: Pages replaced
  - 400: Validation: Empty page set
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) replacePages(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input replacePagesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Custom("pages", len(input.Pages) == 0, "At least one page is required")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.bookService.ReplacePages(request.Context(), id, input.Pages); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
