package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/rs/zerolog"
)

// AccessLogger builds the request logger used by NewRouter.
func AccessLogger(serviceName string, jsonOutput bool) zerolog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		JSON:    jsonOutput,
		Concise: true,
	})
}

func NewRouter(h *Handler, accessLog zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))

	r.Get("/", h.Welcome)
	r.Get("/health", h.Health)
	r.Post("/fill-form", h.FillForm)

	return r
}
