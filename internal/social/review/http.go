// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pagination"
)

// Handler implements the review endpoints.
type Handler struct {
	reviewService *Service
	verifier      middleware.TokenVerifier
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, verifier middleware.TokenVerifier) *Handler {
	return &Handler{reviewService: service, verifier: verifier}
}

// Routes returns a [chi.Router] configured with review routes.
//
// # Endpoints
//   - GET    /?bookId= : Reviews of a book, newest first.
//   - POST   /         : Create a review (bearer token required).
//   - PUT    /{id}     : Edit own review (bearer token required).
//   - DELETE /{id}     : Delete own review (bearer token required).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.verifier))
		r.Post("/", handler.createReview)
		r.Put("/{id}", handler.updateReview)
		r.Delete("/{id}", handler.deleteReview)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	BookID  int64  `json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type updateRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type createResponse struct {
	Message  string `json:"message"`
	ReviewID int64  `json:"reviewId"`
}

/*
ListReviews handles GET /api/reviews?bookId=.

Response:
  - 200: PaginatedEnvelope of Review
  - 400: bookId missing or not a positive integer
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.Int64Query(request, FieldBookIDQ)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviews, meta, err := handler.reviewService.ListReviews(request.Context(), bookID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, meta)
}

/*
CreateReview handles POST /api/reviews.

Response:
  - 201: {"message": "Review created successfully", "reviewId": n}
  - 400: VALIDATION_ERROR
  - 401 / 403: token missing or invalid
  - 404: unknown book
  - 409: already reviewed
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Custom(FieldBookID, input.BookID < 1, "This field is required").
		Range(FieldRating, input.Rating, MinRating, MaxRating).
		MaxLen(FieldComment, input.Comment, MaxCommentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), userID, CreateInput{
		BookID:  input.BookID,
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, createResponse{Message: MessageCreated, ReviewID: review.ID})
}

/*
UpdateReview handles PUT /api/reviews/{id}.

Response:
  - 200: Review
  - 400: VALIDATION_ERROR
  - 403: not the author, or invalid token
  - 404: unknown review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Range(FieldRating, input.Rating, MinRating, MaxRating).
		MaxLen(FieldComment, input.Comment, MaxCommentLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), userID, reviewID, UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
DeleteReview handles DELETE /api/reviews/{id}.

Response:
  - 204: deleted
  - 403: not the author, or invalid token
  - 404: unknown review
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredIdentityID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(request.Context(), userID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
