package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"imagegenie/internal/http/handlers"
	"imagegenie/internal/middleware"
)

type RouterOptions struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/options", func(r chi.Router) {
		r.Get("/", app.OptionsList)
		r.Get("/{category}", app.OptionsGet)
		r.Put("/{category}", app.OptionsReseed)
	})

	r.Route("/v1/images", func(r chi.Router) {
		r.Post("/", app.ImagesCreate)
		r.Get("/{created}", app.ImagesGet)
		r.Delete("/{created}", app.ImagesDelete)
	})

	r.Get("/v1/events/{created}", app.EventsGet)

	return r
}
