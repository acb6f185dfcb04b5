package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"imagegenie/internal/domain"
)

type reseedRequest struct {
	Options []string `json:"options"`
}

func (a *App) OptionsList(w http.ResponseWriter, r *http.Request) {
	all, err := a.svc.ListAllOptions(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"categories": all})
}

func (a *App) OptionsGet(w http.ResponseWriter, r *http.Request) {
	opts, err := a.svc.ListOptions(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, opts)
}

// OptionsReseed replaces a category wholesale and returns the stored list.
func (a *App) OptionsReseed(w http.ResponseWriter, r *http.Request) {
	var req reseedRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		a.fail(w, r, fmt.Errorf("%w: invalid payload", domain.ErrInvalidOption))
		return
	}
	category := chi.URLParam(r, "category")
	if err := a.svc.Reseed(r.Context(), category, req.Options); err != nil {
		a.fail(w, r, err)
		return
	}
	opts, err := a.svc.ListOptions(r.Context(), category)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, opts)
}
