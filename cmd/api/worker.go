package main

import (
	"fmt"
	"net/http"
	"strconv"

	"vairanya/internal/domain/tasks"
	"vairanya/internal/params"
)

// workerID resolves the numeric identity behind the gated session record.
func workerID(r *http.Request) (int64, error) {
	rec := getRecordFromContext(r)
	if rec == nil {
		return 0, fmt.Errorf("no session record")
	}
	return strconv.ParseInt(rec.SubjectID, 10, 64)
}

// workerDashboardHandler godoc
//
//	@Summary		Worker dashboard
//	@Description	Queue counts: open, claimed, done today, and the caller's claimed tasks.
//	@Tags			worker
//	@Produce		json
//	@Success		200	{object}	tasks.Summary
//	@Security		ApiKeyAuth
//	@Router			/worker/dashboard [get]
func (app *application) workerDashboardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	summary, err := app.store.Tasks.Summarize(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, summary); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listTasksHandler godoc
//
//	@Summary		List fulfillment tasks
//	@Description	The shared queue, oldest first. Filterable by ?status=.
//	@Tags			worker
//	@Produce		json
//	@Param			status	query		string	false	"Task status"
//	@Success		200		{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/worker/tasks [get]
func (app *application) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	list, total, err := app.store.Tasks.List(r.Context(), tasks.Status(q.Get("status")), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"tasks":      list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listMyTasksHandler godoc
//
//	@Summary		List claimed tasks
//	@Description	Tasks the caller has claimed and not yet completed.
//	@Tags			worker
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		ApiKeyAuth
//	@Router			/worker/tasks/mine [get]
func (app *application) listMyTasksHandler(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Tasks.ListMine(r.Context(), id, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"tasks":      list,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// claimTaskHandler godoc
//
//	@Summary		Claim a task
//	@Description	First writer wins; a task grabbed by someone else between list and claim returns 409.
//	@Tags			worker
//	@Produce		json
//	@Param			taskID	path		int	true	"Task ID"
//	@Success		200		{object}	tasks.Task
//	@Failure		404		{object}	error	"Not found"
//	@Failure		409		{object}	error	"Already claimed"
//	@Security		ApiKeyAuth
//	@Router			/worker/tasks/{taskID}/claim [post]
func (app *application) claimTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	taskID, err := parseID(r, "taskID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	task, err := app.store.Tasks.Claim(r.Context(), taskID, id)
	if err != nil {
		switch err {
		case tasks.ErrNotFound:
			app.notFoundResponse(w, r, err)
		case tasks.ErrTaken:
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, task); err != nil {
		app.internalServerError(w, r, err)
	}
}

// releaseTaskHandler godoc
//
//	@Summary		Release a claimed task
//	@Description	Puts the task back in the open queue. Only the claimer can release.
//	@Tags			worker
//	@Param			taskID	path		int		true	"Task ID"
//	@Success		204		{string}	string	"No Content"
//	@Failure		404		{object}	error	"Not claimed by caller"
//	@Security		ApiKeyAuth
//	@Router			/worker/tasks/{taskID}/release [post]
func (app *application) releaseTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	taskID, err := parseID(r, "taskID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Tasks.Release(r.Context(), taskID, id); err != nil {
		switch err {
		case tasks.ErrNotClaimed:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// completeTaskHandler godoc
//
//	@Summary		Complete a claimed task
//	@Tags			worker
//	@Param			taskID	path		int		true	"Task ID"
//	@Success		204		{string}	string	"No Content"
//	@Failure		404		{object}	error	"Not claimed by caller"
//	@Security		ApiKeyAuth
//	@Router			/worker/tasks/{taskID}/complete [post]
func (app *application) completeTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := workerID(r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	taskID, err := parseID(r, "taskID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Tasks.Complete(r.Context(), taskID, id); err != nil {
		switch err {
		case tasks.ErrNotClaimed:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
