package main

import (
	"net/http"

	"vairanya/internal/domain/products"
)

type CreateProductPayload struct {
	Name        string  `json:"name" validate:"required,max=140"`
	Slug        string  `json:"slug" validate:"required,slug,max=140"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
}

// createProductHandler godoc
//
//	@Summary		Create product
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateProductPayload	true	"Product fields"
//	@Success		201		{object}	products.Product
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request or duplicate slug"
//	@Security		ApiKeyAuth
//	@Router			/admin/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &products.Product{
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CategoryID:  payload.CategoryID,
		IsActive:    true,
	}

	if err := app.store.Products.CreateProduct(r.Context(), product); err != nil {
		switch err {
		case products.ErrDuplicateSlug:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateProductPayload struct {
	Name        string  `json:"name" validate:"required,max=140"`
	Slug        string  `json:"slug" validate:"required,slug,max=140"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	CategoryID  *int64  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	IsActive    bool    `json:"is_active"`
}

// updateProductHandler godoc
//
//	@Summary		Update product
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int						true	"Product ID"
//	@Param			payload		body		UpdateProductPayload	true	"Product fields"
//	@Success		200			{object}	products.Product
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [patch]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product := &products.Product{
		ID:          productID,
		Name:        payload.Name,
		Slug:        payload.Slug,
		Description: payload.Description,
		CategoryID:  payload.CategoryID,
		IsActive:    payload.IsActive,
	}

	if err := app.store.Products.UpdateProduct(r.Context(), product); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case products.ErrDuplicateSlug:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Delete product
//	@Description	Soft deletes: the product disappears from the storefront but stays referenced by past orders.
//	@Tags			admin-catalog
//	@Param			productID	path		int		true	"Product ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Products.DeleteProduct(r.Context(), productID); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type VariantPayload struct {
	SKU        string  `json:"sku" validate:"required,max=60"`
	Metal      string  `json:"metal" validate:"required,oneof=gold silver platinum rose-gold"`
	Purity     *string `json:"purity,omitempty" validate:"omitempty,max=10"`
	Stone      *string `json:"stone,omitempty" validate:"omitempty,max=60"`
	Size       *string `json:"size,omitempty" validate:"omitempty,max=20"`
	PriceCents int64   `json:"price_cents" validate:"required,gt=0"`
	InStock    int     `json:"in_stock" validate:"gte=0"`
}

// addVariantHandler godoc
//
//	@Summary		Add variant
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int				true	"Product ID"
//	@Param			payload		body		VariantPayload	true	"Variant fields"
//	@Success		201			{object}	products.Variant
//	@Failure		400			{object}	ErrorBadRequestResponse	"Bad request or duplicate SKU"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/variants [post]
func (app *application) addVariantHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload VariantPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	variant := &products.Variant{
		ProductID:  productID,
		SKU:        payload.SKU,
		Metal:      payload.Metal,
		Purity:     payload.Purity,
		Stone:      payload.Stone,
		Size:       payload.Size,
		PriceCents: payload.PriceCents,
		InStock:    payload.InStock,
		IsActive:   true,
	}

	if err := app.store.Products.CreateVariant(r.Context(), variant); err != nil {
		switch err {
		case products.ErrDuplicateSlug:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, variant); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateVariantHandler godoc
//
//	@Summary		Update variant
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int				true	"Product ID"
//	@Param			variantID	path		int				true	"Variant ID"
//	@Param			payload		body		VariantPayload	true	"Variant fields"
//	@Success		200			{object}	products.Variant
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/variants/{variantID} [patch]
func (app *application) updateVariantHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	variantID, err := parseID(r, "variantID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload VariantPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	existing, err := app.store.Products.GetVariantByID(r.Context(), variantID)
	if err != nil {
		switch err {
		case products.ErrVariantNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	variant := &products.Variant{
		ID:         variantID,
		ProductID:  productID,
		SKU:        payload.SKU,
		Metal:      payload.Metal,
		Purity:     payload.Purity,
		Stone:      payload.Stone,
		Size:       payload.Size,
		PriceCents: payload.PriceCents,
		InStock:    payload.InStock,
		IsActive:   existing.IsActive,
	}

	if err := app.store.Products.UpdateVariant(r.Context(), variant); err != nil {
		switch err {
		case products.ErrVariantNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, variant); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVariantHandler godoc
//
//	@Summary		Delete variant
//	@Tags			admin-catalog
//	@Param			productID	path		int		true	"Product ID"
//	@Param			variantID	path		int		true	"Variant ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/variants/{variantID} [delete]
func (app *application) deleteVariantHandler(w http.ResponseWriter, r *http.Request) {
	variantID, err := parseID(r, "variantID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Products.DeleteVariant(r.Context(), variantID); err != nil {
		switch err {
		case products.ErrVariantNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CategoryPayload struct {
	Name     string `json:"name" validate:"required,max=80"`
	Slug     string `json:"slug" validate:"required,slug,max=80"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// createCategoryHandler godoc
//
//	@Summary		Create category
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CategoryPayload	true	"Category fields"
//	@Success		201		{object}	products.Category
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request or duplicate slug"
//	@Security		ApiKeyAuth
//	@Router			/admin/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &products.Category{
		Name:     payload.Name,
		Slug:     payload.Slug,
		IsActive: true,
	}

	if err := app.store.Products.CreateCategory(r.Context(), category); err != nil {
		switch err {
		case products.ErrDuplicateSlug:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCategoryHandler godoc
//
//	@Summary		Update category
//	@Tags			admin-catalog
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		int				true	"Category ID"
//	@Param			payload		body		CategoryPayload	true	"Category fields"
//	@Success		200			{object}	products.Category
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/categories/{categoryID} [patch]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &products.Category{
		ID:       categoryID,
		Name:     payload.Name,
		Slug:     payload.Slug,
		IsActive: true,
	}
	if payload.IsActive != nil {
		category.IsActive = *payload.IsActive
	}

	if err := app.store.Products.UpdateCategory(r.Context(), category); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case products.ErrDuplicateSlug:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, category); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete category
//	@Tags			admin-catalog
//	@Param			categoryID	path		int		true	"Category ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseID(r, "categoryID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Products.DeleteCategory(r.Context(), categoryID); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
