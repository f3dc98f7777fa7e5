package main

import (
	"net/http"

	"vairanya/internal/domain/reviews"
	"vairanya/internal/params"
)

// listProductReviewsHandler godoc
//
//	@Summary		List product reviews
//	@Description	Approved reviews for a product, newest first.
//	@Tags			reviews
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	ErrorBadRequestResponse	"Bad request"
//	@Router			/products/{productID}/reviews [get]
func (app *application) listProductReviewsHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Reviews.ListForProduct(r.Context(), productID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews":    list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getReviewStatsHandler godoc
//
//	@Summary		Review stats
//	@Description	Count and average rating shown beside the stars.
//	@Tags			reviews
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	reviews.Stats
//	@Router			/products/{productID}/reviews/stats [get]
func (app *application) getReviewStatsHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	stats, err := app.store.Reviews.GetStats(r.Context(), productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, stats); err != nil {
		app.internalServerError(w, r, err)
	}
}

type CreateReviewPayload struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// createReviewHandler godoc
//
//	@Summary		Create a review
//	@Description	One review per customer per product. Reviews await moderation before appearing publicly.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int					true	"Product ID"
//	@Param			payload		body		CreateReviewPayload	true	"Rating and comment"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	ErrorBadRequestResponse	"Bad request"
//	@Failure		409			{object}	error					"Already reviewed"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/reviews [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review := &reviews.Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    payload.Rating,
		Comment:   payload.Comment,
	}

	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		switch err {
		case reviews.ErrAlreadyExists:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteOwnReviewHandler godoc
//
//	@Summary		Delete own review
//	@Description	Removes a review the caller wrote.
//	@Tags			reviews
//	@Param			reviewID	path		int		true	"Review ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/reviews/{reviewID} [delete]
func (app *application) deleteOwnReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	reviewID, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Reviews.Delete(r.Context(), reviewID, user.ID); err != nil {
		switch err {
		case reviews.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
