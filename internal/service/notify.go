package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"imagegenie/internal/domain"
)

const (
	KindSuccess = "success"
	KindError   = "error"
)

// Notification is what the presentation layer shows after a command.
type Notification struct {
	Kind          string `json:"kind"`
	Code          string `json:"code,omitempty"`
	Message       string `json:"message"`
	Created       int64  `json:"created,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Path          string `json:"path,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// Error codes carried by error notifications.
const (
	CodeMissingField      = "missing_field"
	CodeInvalidOption     = "invalid_option"
	CodeUnknownCategory   = "unknown_category"
	CodeProviderError     = "provider_error"
	CodeMalformedResponse = "malformed_response"
	CodeTransportFailure  = "transport_failure"
	CodeIOFailure         = "io_failure"
	CodeEventLogFailure   = "event_log_failure"
	CodeNotFound          = "not_found"
	CodeCanceled          = "canceled"
	CodeInternal          = "internal"
)

const (
	msgGenerated         = "Image generated (%s)."
	msgDeleted           = "Image %s deleted."
	msgMissingField      = "Please fill in %s."
	msgInvalidOption     = "The selected image options are not valid."
	msgUnknownCategory   = "Unknown option category."
	msgMalformedResponse = "The image service returned an unreadable response."
	msgTransportFailure  = "Could not reach the image service."
	msgIOFailure         = "Could not write the image file."
	msgEventLogFailure   = "Could not record the generation in the event log."
	msgNotFound          = "Nothing was found for that image."
	msgCanceled          = "The request was cancelled."
	msgInternal          = "Something went wrong."
)

var indonesian = map[string]string{
	msgGenerated:         "Gambar berhasil dibuat (%s).",
	msgDeleted:           "Gambar %s dihapus.",
	msgMissingField:      "Mohon isi %s.",
	msgInvalidOption:     "Opsi gambar yang dipilih tidak valid.",
	msgUnknownCategory:   "Kategori opsi tidak dikenal.",
	msgMalformedResponse: "Layanan gambar mengirim respons yang tidak dapat dibaca.",
	msgTransportFailure:  "Tidak dapat menghubungi layanan gambar.",
	msgIOFailure:         "Gagal menulis berkas gambar.",
	msgEventLogFailure:   "Gagal mencatat pembuatan gambar di log peristiwa.",
	msgNotFound:          "Gambar tersebut tidak ditemukan.",
	msgCanceled:          "Permintaan dibatalkan.",
	msgInternal:          "Terjadi kesalahan.",
}

var messages = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translated := range indonesian {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Indonesian, key, translated)
	}
	return b
}()

func newPrinter(locale string) *message.Printer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

// ErrorNotification converts a command error into user-facing text. Provider
// messages are passed through verbatim.
func ErrorNotification(err error, locale string) Notification {
	p := newPrinter(locale)
	n := Notification{Kind: KindError}

	var missing *domain.MissingFieldError
	var provider *domain.ProviderError
	switch {
	case errors.As(err, &missing):
		n.Code, n.Message = CodeMissingField, p.Sprintf(msgMissingField, fieldTitle(missing.Field))
	case errors.As(err, &provider):
		n.Code, n.Message = CodeProviderError, provider.Error()
	case errors.Is(err, domain.ErrUnknownCategory):
		n.Code, n.Message = CodeUnknownCategory, p.Sprintf(msgUnknownCategory)
	case errors.Is(err, domain.ErrInvalidOption):
		n.Code, n.Message = CodeInvalidOption, p.Sprintf(msgInvalidOption)
	case errors.Is(err, domain.ErrMalformedResponse):
		n.Code, n.Message = CodeMalformedResponse, p.Sprintf(msgMalformedResponse)
	case errors.Is(err, domain.ErrTransportFailure):
		n.Code, n.Message = CodeTransportFailure, p.Sprintf(msgTransportFailure)
	case errors.Is(err, domain.ErrEventLogWrite):
		n.Code, n.Message = CodeEventLogFailure, p.Sprintf(msgEventLogFailure)
	case errors.Is(err, domain.ErrIOFailure):
		n.Code, n.Message = CodeIOFailure, p.Sprintf(msgIOFailure)
	case errors.Is(err, domain.ErrNotFound):
		n.Code, n.Message = CodeNotFound, p.Sprintf(msgNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		n.Code, n.Message = CodeCanceled, p.Sprintf(msgCanceled)
	default:
		n.Code, n.Message = CodeInternal, p.Sprintf(msgInternal)
	}
	return n
}

func fieldTitle(field string) string {
	if c, err := domain.ParseCategory(field); err == nil {
		return c.Title()
	}
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}
