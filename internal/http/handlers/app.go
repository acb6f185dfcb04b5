package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"imagegenie/internal/domain"
	"imagegenie/internal/middleware"
	"imagegenie/internal/service"
)

// Service is the command surface the handlers call; *service.Service
// satisfies it.
type Service interface {
	ListOptions(ctx context.Context, category string) (*service.CategoryOptions, error)
	ListAllOptions(ctx context.Context) ([]service.CategoryOptions, error)
	Reseed(ctx context.Context, category string, labels []string) error
	Submit(ctx context.Context, form map[string]string) (*service.Notification, error)
	Delete(ctx context.Context, created int64) (*service.Notification, error)
	FindEvent(ctx context.Context, created int64) (*domain.EventLogEntry, error)
}

// ImageOpener serves saved files; *storage.FileStore satisfies it.
type ImageOpener interface {
	Open(created int64) (*os.File, error)
}

type AppOptions struct {
	Service Service
	Images  ImageOpener
	Logger  *zerolog.Logger
}

type App struct {
	svc    Service
	images ImageOpener
	logger zerolog.Logger
}

func NewApp(opts AppOptions) *App {
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &App{svc: opts.Service, images: opts.Images, logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes an error notification in the request locale.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	n := service.ErrorNotification(err, middleware.LocaleFromContext(r.Context()))
	status := statusFor(err)
	event := a.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = a.logger.Error()
	}
	event.Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("code", n.Code).
		Msg("request failed")
	a.json(w, status, n)
}

func statusFor(err error) int {
	var missing *domain.MissingFieldError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownCategory), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProviderFailure),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrTransportFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
