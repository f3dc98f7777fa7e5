package main

import (
	"fmt"
	"net/http"

	"vairanya/internal/domain/products"
)

// uploadProductImagesHandler godoc
//
//	@Summary		Upload product images
//	@Description	Uploads up to 7 images for a product. The first image of a product without one becomes primary.
//	@Tags			admin-catalog
//	@Accept			mpfd
//	@Produce		json
//	@Param			productID	path		int		true	"Product ID"
//	@Param			images		formData	file	true	"Image files"
//	@Success		201			{object}	map[string]any
//	@Failure		400			{object}	ErrorBadRequestResponse	"Bad request"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/images [post]
func (app *application) uploadProductImagesHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if _, err := app.store.Products.GetProductByID(r.Context(), productID); err != nil {
		switch err {
		case products.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	const maxBytes = 15 * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no images provided"))
		return
	}
	if len(files) > 7 {
		app.badRequestResponse(w, r, fmt.Errorf("maximum 7 images allowed"))
		return
	}

	urls, err := app.uploadImagesWithProductID(files, productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	var saved []products.Image
	for i, u := range urls {
		img := products.Image{
			ProductID: productID,
			URL:       u,
			IsPrimary: i == 0,
			SortOrder: i,
		}
		if err := app.store.Products.AddImage(r.Context(), &img); err != nil {
			app.internalServerError(w, r, err)
			return
		}
		saved = append(saved, img)
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]any{"images": saved}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductImageHandler godoc
//
//	@Summary		Delete product image
//	@Description	Removes the image row and the Cloudinary asset. Call DELETE /admin/products/{productID}/images?image_url={url}.
//	@Tags			admin-catalog
//	@Param			productID	path		int		true	"Product ID"
//	@Param			image_url	query		string	true	"Image URL"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Image not found"
//	@Security		ApiKeyAuth
//	@Router			/admin/products/{productID}/images [delete]
func (app *application) deleteProductImageHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	imageURL := r.URL.Query().Get("image_url")
	if imageURL == "" {
		app.badRequestResponse(w, r, fmt.Errorf("image_url is required"))
		return
	}

	removed, err := app.store.Products.RemoveImage(r.Context(), productID, imageURL)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if !removed {
		app.notFoundResponse(w, r, products.ErrImageNotFound)
		return
	}

	if err := app.deletePhotoFromCloudinary(imageURL); err != nil {
		// row is gone, asset cleanup failed. log and move on.
		app.logger.Errorw("failed to delete cloudinary asset", "url", imageURL, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}
