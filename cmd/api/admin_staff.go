package main

import (
	"errors"
	"fmt"
	"net/http"

	"vairanya/internal/domain/staff"
	"vairanya/internal/params"
	"vairanya/internal/session"
)

// listStaffHandler godoc
//
//	@Summary		List staff directory
//	@Tags			superadmin
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/superadmin/staff [get]
func (app *application) listStaffHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Staff.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"staff":      list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

type AddStaffPayload struct {
	SubjectID   string `json:"subject_id" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Role        string `json:"role" validate:"required,oneof=worker admin superuser"`
}

// addStaffHandler godoc
//
//	@Summary		Add staff member
//	@Description	Grants a back-office role to an existing account. The subject's next classification picks it up.
//	@Tags			superadmin
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		AddStaffPayload	true	"Subject and role"
//	@Success		201		{object}	staff.Member
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request or already staff"
//	@Security		ApiKeyAuth
//	@Router			/superadmin/staff [post]
func (app *application) addStaffHandler(w http.ResponseWriter, r *http.Request) {
	var payload AddStaffPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, ok := session.ParseRole(payload.Role)
	if !ok || !role.IsStaff() {
		app.badRequestResponse(w, r, fmt.Errorf("invalid staff role %q", payload.Role))
		return
	}

	member := &staff.Member{
		SubjectID:   payload.SubjectID,
		DisplayName: payload.DisplayName,
		Role:        role,
	}

	if err := app.store.Staff.Add(r.Context(), member); err != nil {
		switch err {
		case staff.ErrDuplicate:
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	// Any stale negative classification for this subject must not survive
	// the grant.
	app.gate.Resolver().Clear(r.Context(), payload.SubjectID)

	if err := app.jsonResponse(w, http.StatusCreated, member); err != nil {
		app.internalServerError(w, r, err)
	}
}

type SetStaffRolePayload struct {
	Role string `json:"role" validate:"required,oneof=worker admin superuser"`
}

// setStaffRoleHandler godoc
//
//	@Summary		Change staff role
//	@Tags			superadmin
//	@Accept			json
//	@Produce		json
//	@Param			memberID	path		int					true	"Staff member ID"
//	@Param			payload		body		SetStaffRolePayload	true	"New role"
//	@Success		204			{string}	string				"No Content"
//	@Failure		404			{object}	error				"Not found"
//	@Security		ApiKeyAuth
//	@Router			/superadmin/staff/{memberID}/role [patch]
func (app *application) setStaffRoleHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseID(r, "memberID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetStaffRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	role, ok := session.ParseRole(payload.Role)
	if !ok || !role.IsStaff() {
		app.badRequestResponse(w, r, fmt.Errorf("invalid staff role %q", payload.Role))
		return
	}

	if err := app.store.Staff.SetRole(r.Context(), memberID, role); err != nil {
		switch err {
		case staff.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.clearResolvedStaffSession(r, memberID)

	w.WriteHeader(http.StatusNoContent)
}

// deactivateStaffHandler godoc
//
//	@Summary		Deactivate staff member
//	@Description	Removes back-office access. The account itself survives as a customer.
//	@Tags			superadmin
//	@Param			memberID	path		int		true	"Staff member ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"Not found"
//	@Security		ApiKeyAuth
//	@Router			/superadmin/staff/{memberID} [delete]
func (app *application) deactivateStaffHandler(w http.ResponseWriter, r *http.Request) {
	memberID, err := parseID(r, "memberID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	app.clearResolvedStaffSession(r, memberID)

	if err := app.store.Staff.Deactivate(r.Context(), memberID); err != nil {
		switch err {
		case staff.ErrNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// clearResolvedStaffSession evicts the member's cached session so role
// changes bite on their next request instead of at record TTL.
func (app *application) clearResolvedStaffSession(r *http.Request, memberID int64) {
	m, err := app.store.Staff.GetByID(r.Context(), memberID)
	if err != nil {
		if !errors.Is(err, staff.ErrNotFound) {
			app.logger.Warnw("failed to load staff member for session eviction", "member_id", memberID, "error", err)
		}
		return
	}
	app.gate.Resolver().Clear(r.Context(), m.SubjectID)
}
