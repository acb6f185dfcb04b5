package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"imagegenie/internal/domain"
	"imagegenie/internal/service"
)

const maxBodyBytes = 1 << 20

// ImagesCreate accepts the flat form payload as JSON or as an urlencoded form
// and runs one generation.
func (a *App) ImagesCreate(w http.ResponseWriter, r *http.Request) {
	form, err := readForm(w, r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.svc.Submit(r.Context(), form)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/v1/images/%d", n.Created))
	a.json(w, http.StatusCreated, n)
}

func (a *App) ImagesGet(w http.ResponseWriter, r *http.Request) {
	created, err := service.ParseCreated(chi.URLParam(r, "created"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	f, err := a.images.Open(created)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		a.fail(w, r, fmt.Errorf("%w: %w", domain.ErrIOFailure, err))
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (a *App) ImagesDelete(w http.ResponseWriter, r *http.Request) {
	created, err := service.ParseCreated(chi.URLParam(r, "created"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.svc.Delete(r.Context(), created)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, n)
}

func readForm(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && err != http.ErrNotMultipart {
			return nil, fmt.Errorf("%w: invalid form", domain.ErrInvalidOption)
		}
		form := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		return form, nil
	default:
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: invalid payload", domain.ErrInvalidOption)
		}
		return flatten(raw), nil
	}
}

// flatten converts JSON scalars to form strings. A boolean prompt_override
// maps to the "yes"/"no" indicator.
func flatten(raw map[string]any) map[string]string {
	form := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			form[key] = v
		case bool:
			if v {
				form[key] = domain.OverrideIndicator
			} else {
				form[key] = domain.OverrideDefault
			}
		case float64:
			form[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
		default:
			form[key] = fmt.Sprint(v)
		}
	}
	return form
}
