// Copyright (c) 2026 BookHaven. All rights reserved.

package progress

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bookhaven/bookhaven/internal/platform/request"
	"github.com/bookhaven/bookhaven/internal/platform/respond"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
)

// Handler implements the HTTP layer for the reader library. Every endpoint
// operates on the authenticated reader's own data.
type Handler struct {
	libraryService *Service
}

// NewHandler constructs a new library [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{libraryService: service}
}

// Routes returns a [chi.Router] configured with the library's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Bookmarks & Progress
	router.Get("/bookmarks", handler.listBookmarks)
	router.Get("/bookmarks/{bookID}", handler.getBookmark)
	router.Put("/bookmarks/{bookID}", handler.setBookmark)
	router.Delete("/bookmarks/{bookID}", handler.deleteBookmark)
	router.Get("/bookmarks/{bookID}/progress", handler.getProgress)

	// History, Ratings & Reviews
	router.Get("/history", handler.listHistory)
	router.Post("/history/{bookID}/complete", handler.markCompleted)
	router.Put("/history/{bookID}/rating", handler.setRating)
	router.Put("/history/{bookID}/review", handler.setReview)
	router.Delete("/history/{bookID}", handler.deleteHistory)

	// Favorites
	router.Get("/favorites", handler.listFavorites)
	router.Put("/favorites/{bookID}", handler.addFavorite)
	router.Delete("/favorites/{bookID}", handler.removeFavorite)

	// Recommendations
	router.Get("/recommendations", handler.getRecommendations)

	return router
}

// # Bookmark Endpoints

/*
GET /api/v1/library/bookmarks.

Response:
  - 200: []Bookmark: All saved positions, most recently updated first
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listBookmarks(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmarks, err := handler.libraryService.ListBookmarks(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmarks)
}

/*
GET /api/v1/library/bookmarks/{bookID}.

Response:
  - 200: Bookmark: The saved position
  - 404: ErrNotFound: No bookmark on this book
*/
func (handler *Handler) getBookmark(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bookmark, err := handler.libraryService.GetBookmark(request.Context(), userID, chi.URLParam(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmark)
}

// setBookmarkRequest defines the JSON payload for saving a position.
type setBookmarkRequest struct {
	PageNumber int `json:"page_number"`
}

/*
PUT /api/v1/library/bookmarks/{bookID}.

Description: Saves or moves the reading position. PUT because the operation
is an upsert on the (reader, book) pair: repeating it moves the bookmark.

Response:
  - 200: Bookmark: The saved position
  - 400: Validation: Page number outside the book's range
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) setBookmark(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setBookmarkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	bookmark, err := handler.libraryService.SetBookmark(request.Context(), userID, chi.URLParam(request, "bookID"), input.PageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, bookmark)
}

/*
DELETE /api/v1/library/bookmarks/{bookID}.

Response:
  - 204: No Content: Bookmark removed (or never existed)
*/
func (handler *Handler) deleteBookmark(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.libraryService.DeleteBookmark(request.Context(), userID, chi.URLParam(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /api/v1/library/bookmarks/{bookID}/progress.

Response:
  - 200: Progress: Position, page count, and percentage
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) getProgress(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	progress, err := handler.libraryService.GetProgress(request.Context(), userID, chi.URLParam(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, progress)
}

// # History Endpoints

/*
GET /api/v1/library/history.

Response:
  - 200: []HistoryEntry: Reading history, most recently updated first
*/
func (handler *Handler) listHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.libraryService.ListHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
POST /api/v1/library/history/{bookID}/complete.

Description: Stamps the book as finished now. Repeating the call refreshes
the completion time; any rating or review on the entry is preserved.

Response:
  - 200: HistoryEntry: The completion record
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) markCompleted(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.libraryService.MarkCompleted(request.Context(), userID, chi.URLParam(request, "bookID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// setRatingRequest defines the JSON payload for rating a book. A null rating
// clears the stored value.
type setRatingRequest struct {
	Rating *int `json:"rating"`
}

/*
PUT /api/v1/library/history/{bookID}/rating.

Response:
  - 200: HistoryEntry: The updated record
  - 400: Validation: Rating outside 1 to 5
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) setRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setRatingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entry, err := handler.libraryService.SetRating(request.Context(), userID, chi.URLParam(request, "bookID"), input.Rating)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// setReviewRequest defines the JSON payload for reviewing a book. A null
// review clears the stored text.
type setReviewRequest struct {
	Review *string `json:"review"`
}

/*
PUT /api/v1/library/history/{bookID}/review.

Response:
  - 200: HistoryEntry: The updated record
  - 400: Validation: Review over 2000 characters
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) setReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entry, err := handler.libraryService.SetReview(request.Context(), userID, chi.URLParam(request, "bookID"), input.Review)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

/*
DELETE /api/v1/library/history/{bookID}.

Response:
  - 204: No Content: Entry removed (or never existed)
*/
func (handler *Handler) deleteHistory(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.libraryService.DeleteHistory(request.Context(), userID, chi.URLParam(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Favorite Endpoints

/*
GET /api/v1/library/favorites.

Response:
  - 200: []Favorite: Loved books, most recently added first
*/
func (handler *Handler) listFavorites(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorites, err := handler.libraryService.ListFavorites(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, favorites)
}

/*
PUT /api/v1/library/favorites/{bookID}.

Description: PUT because favoriting is idempotent: repeating the call leaves
the single favorite in place.

Response:
  - 204: No Content: Book favorited
  - 404: ErrNotFound: Book not found
*/
func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.libraryService.AddFavorite(request.Context(), userID, chi.URLParam(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/library/favorites/{bookID}.

Response:
  - 204: No Content: Favorite removed (or never existed)
*/
func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.libraryService.RemoveFavorite(request.Context(), userID, chi.URLParam(request, "bookID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Recommendation Endpoints

/*
GET /api/v1/library/recommendations.

Description: Returns up to eight unread books from the reader's preferred
categories, falling back to the newest catalog additions when no preference
signal exists.

Response:
  - 200: []Book: Recommended books
*/
func (handler *Handler) getRecommendations(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	books, err := handler.libraryService.Recommendations(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}
