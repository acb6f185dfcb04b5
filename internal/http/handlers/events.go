package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"imagegenie/internal/service"
)

func (a *App) EventsGet(w http.ResponseWriter, r *http.Request) {
	created, err := service.ParseCreated(chi.URLParam(r, "created"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	entry, err := a.svc.FindEvent(r.Context(), created)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, entry)
}
