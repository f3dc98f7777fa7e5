package main

import (
	"net/http"

	"vairanya/internal/domain/orders"
	"vairanya/internal/params"
)

type CheckoutPayload struct {
	Name       string  `json:"name" validate:"required,max=100"`
	Phone      string  `json:"phone" validate:"required,max=20"`
	Address    string  `json:"address" validate:"required,max=255"`
	City       string  `json:"city" validate:"required,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=56"`
}

// checkoutHandler godoc
//
//	@Summary		Checkout
//	@Description	Converts the active cart into a pending order in one transaction: lines are snapshotted at cart prices, the cart is marked converted, and a public order number is assigned.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CheckoutPayload	true	"Shipping details"
//	@Success		201		{object}	orders.Order
//	@Failure		400		{object}	ErrorBadRequestResponse		"Bad request or empty cart"
//	@Failure		500		{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/orders/checkout [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CheckoutPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	order, err := app.store.Orders.CreateFromCart(r.Context(), user.ID, orders.ShippingInfo{
		Name:       payload.Name,
		Phone:      payload.Phone,
		Address:    payload.Address,
		City:       payload.City,
		PostalCode: payload.PostalCode,
		Country:    payload.Country,
	})
	if err != nil {
		switch err {
		case orders.ErrEmptyCart:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("order placed", "order_number", order.OrderNumber, "user_id", user.ID)

	if err := app.jsonResponse(w, http.StatusCreated, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMyOrdersHandler godoc
//
//	@Summary		List own orders
//	@Description	Paginated order history for the caller, newest first. Filterable by ?status=.
//	@Tags			orders
//	@Produce		json
//	@Param			status	query		string	false	"Order status"
//	@Param			page	query		int		false	"Page number"
//	@Success		200		{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/orders [get]
func (app *application) listMyOrdersHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	q := r.URL.Query()
	p := params.ParsePagination(q)

	list, total, err := app.store.Orders.ListByUser(r.Context(), user.ID, q.Get("status"), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"orders":     list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMyOrderHandler godoc
//
//	@Summary		Get own order
//	@Description	Order detail with snapshotted items. Only the order's owner can see it.
//	@Tags			orders
//	@Produce		json
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	orders.Detail
//	@Failure		404		{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/orders/{orderID} [get]
func (app *application) getMyOrderHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	orderID, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Orders.GetDetailForUser(r.Context(), user.ID, orderID)
	if err != nil {
		switch err {
		case orders.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}
