package main

import (
	"net/http"
	"strconv"

	"vairanya/internal/domain/products"
	"vairanya/internal/params"

	"github.com/go-chi/chi/v5"
)

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	Active jewelry categories for storefront navigation.
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	products.Category
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	cats, err := app.store.Products.ListCategories(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, cats); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listProductsHandler godoc
//
//	@Summary		List product cards
//	@Description	Paginated product cards with starting price and primary image. Filterable by ?category={slug} and ?search={term}.
//	@Tags			catalog
//	@Produce		json
//	@Param			category	query		string	false	"Category slug"
//	@Param			search		query		string	false	"Search term"
//	@Param			page		query		int		false	"Page number"
//	@Param			limit		query		int		false	"Items per page"
//	@Success		200			{object}	map[string]any
//	@Failure		500			{object}	ErrorInternalServerResponse	"Internal Server Error"
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	cards, total, err := app.store.Products.ListCards(r.Context(), q.Get("category"), q.Get("search"), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"products":   cards,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductHandler godoc
//
//	@Summary		Get product detail
//	@Description	Full product detail by slug: variants, images, category.
//	@Tags			catalog
//	@Produce		json
//	@Param			slug	path		string	true	"Product slug"
//	@Success		200		{object}	products.Detail
//	@Failure		404		{object}	error	"Not found"
//	@Router			/products/{slug} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	detail, err := app.store.Products.GetDetailBySlug(r.Context(), slug)
	if err != nil {
		switch err {
		case products.ErrNotFound:
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

func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
