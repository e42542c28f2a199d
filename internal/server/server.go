// Package server is the HTTP adapter over the tool registry. It owns no
// domain logic: it decodes bodies, dispatches tool calls, and maps the domain
// error kinds onto protocol responses.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"infoflow/internal/domain"
	"infoflow/internal/tools"
)

// Server exposes the registry under /api/v1.
type Server struct {
	registry *tools.Registry
	logger   *slog.Logger
	router   chi.Router
}

// New builds the router with the standard middleware stack.
func New(registry *tools.Registry, logger *slog.Logger) *Server {
	s := &Server{registry: registry, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", s.handleList)
		r.Post("/tools/{name}", s.handleCall)
	})
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.registry.List())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidParams, "cannot read request body")
		return
	}

	result, err := s.registry.Dispatch(r.Context(), name, payload)
	if err != nil {
		s.writeDomainError(w, name, err)
		return
	}
	writeSuccess(w, result)
}

// writeDomainError maps error kinds to response codes. Validation messages
// are surfaced verbatim; unknown failures stay opaque.
func (s *Server) writeDomainError(w http.ResponseWriter, tool string, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		invalidState *domain.InvalidStateError
		insufficient *domain.InsufficientDataError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, CodeInvalidParams, validation.Error())
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, CodeNotFound, notFound.Error())
	case errors.As(err, &invalidState):
		writeError(w, http.StatusConflict, CodeInvalidState, invalidState.Error())
	case errors.As(err, &insufficient):
		writeError(w, http.StatusUnprocessableEntity, CodeInsufficientData, insufficient.Error())
	default:
		if s.logger != nil {
			s.logger.Error("tool call failed", "tool", tool, "error", err)
		}
		writeError(w, http.StatusInternalServerError, CodeServerError, "internal error")
	}
}
