// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Handler implements the public catalogue endpoints.
type Handler struct {
	bookService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{bookService: service}
}

// Routes returns a [chi.Router] configured with catalogue routes.
//
// # Endpoints
//   - GET /        : Paginated listing with ?search= and ?genre=.
//   - GET /genres  : Distinct genres.
//   - GET /{id}    : A single book with aggregates.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listBooks)
	router.Get("/genres", handler.listGenres)
	router.Get("/{id}", handler.getBook)

	return router
}

/*
ListBooks handles GET /api/books.

Response:
  - 200: PaginatedEnvelope of Book
*/
func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	filter := Filter{Search: query.Get("search"), Genre: query.Get("genre")}

	books, meta, err := handler.bookService.ListBooks(request.Context(), filter, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, meta)
}

/*
ListGenres handles GET /api/books/genres.
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.bookService.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, genres)
}

/*
GetBook handles GET /api/books/{id}.

Response:
  - 200: Book
  - 400: id is not a positive integer
  - 404: no such book
*/
func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.bookService.GetBook(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}
