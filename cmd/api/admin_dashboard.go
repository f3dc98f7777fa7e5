package main

import (
	"net/http"
	"strconv"
)

// adminOverviewHandler godoc
//
//	@Summary		Admin overview
//	@Description	Aggregate counts and revenue for the admin landing page.
//	@Tags			admin-dashboard
//	@Produce		json
//	@Success		200	{object}	dashboard.Overview
//	@Security		ApiKeyAuth
//	@Router			/admin [get]
func (app *application) adminOverviewHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := app.store.Dashboard.GetOverview(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, overview); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminSalesHandler godoc
//
//	@Summary		Daily sales
//	@Description	Orders and revenue per calendar day, zero-filled. ?days=30 by default.
//	@Tags			admin-dashboard
//	@Produce		json
//	@Param			days	query	int	false	"Window in days"
//	@Success		200		{array}	dashboard.DailySale
//	@Security		ApiKeyAuth
//	@Router			/admin/sales [get]
func (app *application) adminSalesHandler(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			days = parsed
		}
	}

	sales, err := app.store.Dashboard.SalesByDay(r.Context(), days)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, sales); err != nil {
		app.internalServerError(w, r, err)
	}
}
