package main

import (
	"net/http"
	"time"

	"vairanya/internal/domain/carousels"
)

// adminListCarouselSlidesHandler godoc
//
//	@Summary		List all carousel slides
//	@Description	Every slide including inactive and out-of-window ones.
//	@Tags			admin-marketing
//	@Produce		json
//	@Success		200	{array}	carousels.Slide
//	@Security		ApiKeyAuth
//	@Router			/admin/carousels [get]
func (app *application) adminListCarouselSlidesHandler(w http.ResponseWriter, r *http.Request) {
	slides, err := app.store.Carousels.ListAllSlides(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, slides); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SlidePayload struct {
	Headline  string     `json:"headline" validate:"required,max=140"`
	Subtext   *string    `json:"subtext,omitempty" validate:"omitempty,max=280"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	CTALabel  *string    `json:"cta_label,omitempty" validate:"omitempty,max=40"`
	CTALink   *string    `json:"cta_link,omitempty" validate:"omitempty,max=255"`
	SortOrder int        `json:"sort_order" validate:"gte=0"`
	IsActive  bool       `json:"is_active"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

// createCarouselSlideHandler godoc
//
//	@Summary		Create carousel slide
//	@Tags			admin-marketing
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		SlidePayload	true	"Slide fields"
//	@Success		201		{object}	carousels.Slide
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/admin/carousels [post]
func (app *application) createCarouselSlideHandler(w http.ResponseWriter, r *http.Request) {
	var payload SlidePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slide := &carousels.Slide{
		Headline:  payload.Headline,
		Subtext:   payload.Subtext,
		ImageURL:  payload.ImageURL,
		CTALabel:  payload.CTALabel,
		CTALink:   payload.CTALink,
		SortOrder: payload.SortOrder,
		IsActive:  payload.IsActive,
		StartsAt:  payload.StartsAt,
		EndsAt:    payload.EndsAt,
	}

	if err := app.store.Carousels.CreateSlide(r.Context(), slide); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, slide); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCarouselSlideHandler godoc
//
//	@Summary		Update carousel slide
//	@Tags			admin-marketing
//	@Accept			json
//	@Produce		json
//	@Param			slideID	path		int				true	"Slide ID"
//	@Param			payload	body		SlidePayload	true	"Slide fields"
//	@Success		200		{object}	carousels.Slide
//	@Failure		404		{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/carousels/{slideID} [patch]
func (app *application) updateCarouselSlideHandler(w http.ResponseWriter, r *http.Request) {
	slideID, err := parseID(r, "slideID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SlidePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	slide := &carousels.Slide{
		ID:        slideID,
		Headline:  payload.Headline,
		Subtext:   payload.Subtext,
		ImageURL:  payload.ImageURL,
		CTALabel:  payload.CTALabel,
		CTALink:   payload.CTALink,
		SortOrder: payload.SortOrder,
		IsActive:  payload.IsActive,
		StartsAt:  payload.StartsAt,
		EndsAt:    payload.EndsAt,
	}

	if err := app.store.Carousels.UpdateSlide(r.Context(), slide); err != nil {
		switch err {
		case carousels.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, slide); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCarouselSlideHandler godoc
//
//	@Summary		Delete carousel slide
//	@Tags			admin-marketing
//	@Param			slideID	path		int		true	"Slide ID"
//	@Success		204		{string}	string	"No Content"
//	@Failure		404		{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/carousels/{slideID} [delete]
func (app *application) deleteCarouselSlideHandler(w http.ResponseWriter, r *http.Request) {
	slideID, err := parseID(r, "slideID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carousels.DeleteSlide(r.Context(), slideID); err != nil {
		switch err {
		case carousels.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CollectionPayload struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,slug,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	CoverURL    *string `json:"cover_url,omitempty" validate:"omitempty,url"`
	IsActive    bool    `json:"is_active"`
}

// createCollectionHandler godoc
//
//	@Summary		Create collection
//	@Tags			admin-marketing
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CollectionPayload	true	"Collection fields"
//	@Success		201		{object}	carousels.Collection
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/admin/collections [post]
func (app *application) createCollectionHandler(w http.ResponseWriter, r *http.Request) {
	var payload CollectionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	col := &carousels.Collection{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CoverURL:    payload.CoverURL,
		IsActive:    payload.IsActive,
	}

	if err := app.store.Carousels.CreateCollection(r.Context(), col); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, col); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCollectionHandler godoc
//
//	@Summary		Update collection
//	@Tags			admin-marketing
//	@Accept			json
//	@Produce		json
//	@Param			collectionID	path		int					true	"Collection ID"
//	@Param			payload			body		CollectionPayload	true	"Collection fields"
//	@Success		200				{object}	carousels.Collection
//	@Failure		404				{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/collections/{collectionID} [patch]
func (app *application) updateCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := parseID(r, "collectionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CollectionPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	col := &carousels.Collection{
		ID:          collectionID,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CoverURL:    payload.CoverURL,
		IsActive:    payload.IsActive,
	}

	if err := app.store.Carousels.UpdateCollection(r.Context(), col); err != nil {
		switch err {
		case carousels.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, col); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetCollectionProductsPayload struct {
	ProductIDs []int64 `json:"product_ids" validate:"required,dive,gt=0"`
}

// setCollectionProductsHandler godoc
//
//	@Summary		Set collection products
//	@Description	Replaces the curated product membership wholesale, preserving payload order.
//	@Tags			admin-marketing
//	@Accept			json
//	@Produce		json
//	@Param			collectionID	path		int								true	"Collection ID"
//	@Param			payload			body		SetCollectionProductsPayload	true	"Ordered product IDs"
//	@Success		200				{object}	map[string]any
//	@Failure		400				{object}	ErrorBadRequestResponse	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/admin/collections/{collectionID}/products [put]
func (app *application) setCollectionProductsHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := parseID(r, "collectionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetCollectionProductsPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carousels.SetCollectionProducts(r.Context(), collectionID, payload.ProductIDs); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"collection_id": collectionID,
		"product_ids":   payload.ProductIDs,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCollectionHandler godoc
//
//	@Summary		Delete collection
//	@Tags			admin-marketing
//	@Param			collectionID	path		int		true	"Collection ID"
//	@Success		204				{string}	string	"No Content"
//	@Failure		404				{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/collections/{collectionID} [delete]
func (app *application) deleteCollectionHandler(w http.ResponseWriter, r *http.Request) {
	collectionID, err := parseID(r, "collectionID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carousels.DeleteCollection(r.Context(), collectionID); err != nil {
		switch err {
		case carousels.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
