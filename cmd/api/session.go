package main

import (
	"net/http"

	"vairanya/internal/session"
)

type subjectKey string

const subjectCtx subjectKey = "subject"

type recordKey string

const recordCtx recordKey = "session_record"

func getSubjectFromContext(r *http.Request) string {
	if subject, ok := r.Context().Value(subjectCtx).(string); ok {
		return subject
	}
	return ""
}

func getRecordFromContext(r *http.Request) *session.Record {
	if rec, ok := r.Context().Value(recordCtx).(*session.Record); ok {
		return rec
	}
	return nil
}

// SessionResponse tells a web shell who the visitor is and where their home
// surface lives.
type SessionResponse struct {
	Outcome     string `json:"outcome"`
	SubjectID   string `json:"subject_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Role        string `json:"role,omitempty"`
	HomeRoute   string `json:"home_route"`
}

// sessionHandler godoc
//
//	@Summary		Resolve the current session
//	@Description	Classifies the caller (anonymous, customer, staff) and returns the surface they belong on. Classification runs at most once per session.
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	SessionResponse
//	@Router			/session [get]
func (app *application) sessionHandler(w http.ResponseWriter, r *http.Request) {
	subjectID := getSubjectFromContext(r)

	out := app.gate.Resolver().Resolve(r.Context(), subjectID)

	resp := SessionResponse{
		Outcome:   out.Kind.String(),
		HomeRoute: "/",
	}
	if out.Record != nil {
		resp.SubjectID = out.Record.SubjectID
		resp.DisplayName = out.Record.DisplayName
		resp.Role = string(out.Record.Role)
		resp.HomeRoute = app.gate.Policy().HomeFor(out.Record.Role)
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

type NavigatePayload struct {
	Route string `json:"route" validate:"required,startswith=/"`
}

type NavigateResponse struct {
	Action  string `json:"action"`
	Target  string `json:"target,omitempty"`
	Pending bool   `json:"pending"`
	Outcome string `json:"outcome"`
	Role    string `json:"role,omitempty"`
}

// navigateHandler godoc
//
//	@Summary		Arbitrate a shell navigation
//	@Description	Decides whether the caller may render the route, must redirect (at most once per lock window), or is denied. Competing shells never bounce each other in a loop.
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		NavigatePayload	true	"Route the shell wants to render"
//	@Success		200		{object}	NavigateResponse
//	@Failure		400		{object}	ErrorBadRequestResponse	"Bad request"
//	@Router			/session/navigate [post]
func (app *application) navigateHandler(w http.ResponseWriter, r *http.Request) {
	var payload NavigatePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	subjectID := getSubjectFromContext(r)
	decision := app.gate.Arbitrate(r.Context(), visitorKey(r, subjectID), subjectID, payload.Route)

	resp := NavigateResponse{
		Action:  decision.Action.String(),
		Target:  decision.Target,
		Pending: decision.Pending,
		Outcome: decision.Outcome.Kind.String(),
	}
	if decision.Outcome.Record != nil {
		resp.Role = string(decision.Outcome.Record.Role)
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
