package main

import (
	"fmt"
	"net/http"

	"vairanya/internal/domain/orders"
	"vairanya/internal/params"

	"github.com/go-chi/chi/v5"
)

// adminListOrdersHandler godoc
//
//	@Summary		List all orders
//	@Description	Paginated order list across all customers, newest first. Filterable by ?status=.
//	@Tags			admin-orders
//	@Produce		json
//	@Param			status	query		string	false	"Order status"
//	@Param			page	query		int		false	"Page number"
//	@Success		200		{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/admin/orders [get]
func (app *application) adminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	list, total, err := app.store.Orders.ListAll(r.Context(), q.Get("status"), p.Limit, p.Offset)
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

// adminGetOrderHandler godoc
//
//	@Summary		Get order detail
//	@Tags			admin-orders
//	@Produce		json
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	orders.Detail
//	@Failure		404		{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/orders/{orderID} [get]
func (app *application) adminGetOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Orders.GetDetail(r.Context(), orderID)
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

// adminLookupOrderHandler godoc
//
//	@Summary		Look up an order by its public number
//	@Description	Resolves a customer-facing order number (as printed on confirmation emails) to the full order detail. Numbers with a bad checksum answer 404.
//	@Tags			admin-orders
//	@Produce		json
//	@Param			orderNumber	path		string	true	"Order number"
//	@Success		200			{object}	orders.Detail
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/orders/lookup/{orderNumber} [get]
func (app *application) adminLookupOrderHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "orderNumber")

	detail, err := app.store.Orders.GetDetailByNumber(r.Context(), number)
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

type UpdateOrderStatusPayload struct {
	Status       string  `json:"status" validate:"required,oneof=confirmed processing shipped delivered cancelled"`
	CancelReason *string `json:"cancel_reason,omitempty" validate:"omitempty,max=500"`
}

// adminUpdateOrderStatusHandler godoc
//
//	@Summary		Advance order status
//	@Description	Applies one lifecycle step (pending→confirmed→processing→shipped→delivered, cancellable until shipped). Confirming an order spawns fulfillment tasks and emails the customer.
//	@Tags			admin-orders
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		int							true	"Order ID"
//	@Param			payload	body		UpdateOrderStatusPayload	true	"Target status"
//	@Success		200		{object}	orders.Order
//	@Failure		400		{object}	ErrorBadRequestResponse	"Invalid transition"
//	@Failure		404		{object}	error					"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/orders/{orderID}/status [patch]
func (app *application) adminUpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateOrderStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	target := orders.Status(payload.Status)
	if target == orders.StatusCancelled && payload.CancelReason == nil {
		app.badRequestResponse(w, r, fmt.Errorf("cancel_reason is required when cancelling"))
		return
	}

	if err := app.store.Orders.UpdateStatus(r.Context(), orderID, target, payload.CancelReason); err != nil {
		switch err {
		case orders.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case orders.ErrInvalidTransition:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	order, err := app.store.Orders.GetByID(r.Context(), orderID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if target == orders.StatusConfirmed {
		if err := app.store.Tasks.SpawnForOrder(r.Context(), orderID, fulfillmentKinds); err != nil {
			app.logger.Errorw("failed to spawn fulfillment tasks", "order_id", orderID, "error", err)
		}
		app.sendOrderConfirmation(orderID)
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}
