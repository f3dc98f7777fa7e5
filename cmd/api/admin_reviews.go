package main

import (
	"net/http"

	"vairanya/internal/domain/reviews"
	"vairanya/internal/params"
)

// listPendingReviewsHandler godoc
//
//	@Summary		List pending reviews
//	@Description	Reviews awaiting moderation, oldest first.
//	@Tags			admin-reviews
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/pending [get]
func (app *application) listPendingReviewsHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Reviews.ListPending(r.Context(), p.Limit, p.Offset)
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

// approveReviewHandler godoc
//
//	@Summary		Approve review
//	@Tags			admin-reviews
//	@Param			reviewID	path		int		true	"Review ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID}/approve [patch]
func (app *application) approveReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Reviews.SetApproved(r.Context(), reviewID, true); err != nil {
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

// adminDeleteReviewHandler godoc
//
//	@Summary		Delete any review
//	@Tags			admin-reviews
//	@Param			reviewID	path		int		true	"Review ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/reviews/{reviewID} [delete]
func (app *application) adminDeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseID(r, "reviewID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// userID 0 skips the ownership check
	if err := app.store.Reviews.Delete(r.Context(), reviewID, 0); err != nil {
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
