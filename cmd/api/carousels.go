package main

import (
	"net/http"

	"vairanya/internal/domain/carousels"

	"github.com/go-chi/chi/v5"
)

// listCarouselSlidesHandler godoc
//
//	@Summary		List homepage carousel slides
//	@Description	Active slides inside their scheduling window, in sort order.
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	carousels.Slide
//	@Router			/carousels [get]
func (app *application) listCarouselSlidesHandler(w http.ResponseWriter, r *http.Request) {
	slides, err := app.store.Carousels.ListActiveSlides(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, slides); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listCollectionsHandler godoc
//
//	@Summary		List collections
//	@Description	Active curated collections for merchandising pages.
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	carousels.Collection
//	@Router			/collections [get]
func (app *application) listCollectionsHandler(w http.ResponseWriter, r *http.Request) {
	cols, err := app.store.Carousels.ListCollections(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cols); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCollectionHandler godoc
//
//	@Summary		Get a collection
//	@Description	Collection metadata plus the IDs of the products it curates.
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Collection slug"
//	@Success		200		{object}	map[string]any
//	@Failure		404		{object}	error	"Not found"
//	@Router			/collections/{slug} [get]
func (app *application) getCollectionHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	col, err := app.store.Carousels.GetCollectionBySlug(r.Context(), slug)
	if err != nil {
		switch err {
		case carousels.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	productIDs, err := app.store.Carousels.ListCollectionProductIDs(r.Context(), col.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"collection":  col,
		"product_ids": productIDs,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}
