// Package httpapi exposes the snippet service over HTTP for documents that
// run their own expansion controllers, and pushes change notifications to
// them over a WebSocket.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	coresnippet "github.com/example/expander/internal/core/snippet"
	"github.com/example/expander/internal/logging"
	"github.com/example/expander/internal/models"
	"github.com/example/expander/internal/ports/primary"
	"github.com/example/expander/internal/ports/secondary"
)

// NewRouter returns the API handler. notifier may be nil, in which case the
// events endpoint answers 503.
func NewRouter(svc primary.SnippetService, notifier secondary.ChangeNotifier) http.Handler {
	h := &handler{
		svc:      svc,
		notifier: notifier,
		logger:   logging.Component("http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snippets", h.listSnippets)
		r.Post("/snippets", h.saveSnippet)
		r.Get("/snippets/search", h.searchSnippets)
		r.Get("/snippets/suggest", h.suggestShortcuts)
		r.Get("/snippets/{id}", h.getSnippet)
		r.Delete("/snippets/{id}", h.deleteSnippet)
		r.Post("/snippets/{id}/usage", h.recordUsage)

		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.putSettings)

		r.Get("/folders", h.listFolders)
		r.Post("/folders", h.createFolder)

		r.Post("/process", h.process)
		r.Get("/export", h.export)
		r.Post("/import", h.importBackup)

		r.Get("/events", h.handleEvents)
	})

	return r
}

type handler struct {
	svc      primary.SnippetService
	notifier secondary.ChangeNotifier
	logger   zerolog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError maps service errors to status codes.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var verr *coresnippet.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalid), errors.As(err, &verr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handler) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// requestLogger logs every request at debug level.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
