package main

import (
	"net/http"

	"vairanya/internal/domain/carts"
)

// getCartHandler godoc
//
//	@Summary		Get cart
//	@Description	The caller's active cart with priced lines and totals. Creates an empty cart on first use.
//	@Tags			carts
//	@Produce		json
//	@Success		200	{object}	carts.View
//	@Failure		500	{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/carts [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	view, err := app.store.Carts.GetView(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

type AddCartItemPayload struct {
	VariantID int64 `json:"variant_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1,max=20"`
}

// addCartItemHandler godoc
//
//	@Summary		Add item to cart
//	@Description	Adds a variant with a price snapshot. Adding an existing variant bumps its quantity.
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AddCartItemPayload	true	"Variant and quantity"
//	@Success		200		{object}	carts.View
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request or variant unavailable"
//	@Security		ApiKeyAuth
//	@Router			/carts/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload AddCartItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carts.AddItem(r.Context(), user.ID, payload.VariantID, payload.Quantity); err != nil {
		switch err {
		case carts.ErrVariantInactive:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.respondWithCart(w, r, user.ID)
}

type UpdateCartItemPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=20"`
}

// updateCartItemHandler godoc
//
//	@Summary		Update cart item quantity
//	@Tags			carts
//	@Accept			json
//	@Produce		json
//	@Param			itemID	path		int						true	"Cart item ID"
//	@Param			payload	body		UpdateCartItemPayload	true	"New quantity"
//	@Success		200		{object}	carts.View
//	@Failure		404		{object}	error	"Item not found"
//	@Security		ApiKeyAuth
//	@Router			/carts/items/{itemID} [patch]
func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	itemID, err := parseID(r, "itemID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCartItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carts.UpdateItemQty(r.Context(), user.ID, itemID, payload.Quantity); err != nil {
		switch err {
		case carts.ErrItemNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.respondWithCart(w, r, user.ID)
}

// removeCartItemHandler godoc
//
//	@Summary		Remove cart item
//	@Tags			carts
//	@Produce		json
//	@Param			itemID	path		int	true	"Cart item ID"
//	@Success		200		{object}	carts.View
//	@Failure		404		{object}	error	"Item not found"
//	@Security		ApiKeyAuth
//	@Router			/carts/items/{itemID} [delete]
func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	itemID, err := parseID(r, "itemID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Carts.RemoveItem(r.Context(), user.ID, itemID); err != nil {
		switch err {
		case carts.ErrItemNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.respondWithCart(w, r, user.ID)
}

// clearCartHandler godoc
//
//	@Summary		Clear cart
//	@Tags			carts
//	@Success		204	{string}	string	"No Content"
//	@Security		ApiKeyAuth
//	@Router			/carts [delete]
func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	if err := app.store.Carts.Clear(r.Context(), user.ID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) respondWithCart(w http.ResponseWriter, r *http.Request, userID int64) {
	view, err := app.store.Carts.GetView(r.Context(), userID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}
