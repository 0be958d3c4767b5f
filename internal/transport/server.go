package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/solace-im/devicesync/internal/config"
	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

// Server is the inbound side of the control-exchange transport: an HTTP
// endpoint the relay pushes envelopes to.
type Server struct {
	server  *http.Server
	handler Handler
	logger  *logger.Logger
}

// NewServer creates the inbound exchange endpoint listening on the
// configured address. Every delivered envelope is passed to handler.
func NewServer(cfg config.Transport, handler Handler, log *logger.Logger) *Server {
	s := &Server{
		handler: handler,
		logger:  log.GetChildLogger("transportServer"),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post(exchangePath, s.handleExchange)

	s.server = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: router,
	}

	return s
}

// Run blocks serving inbound exchanges until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("exchange endpoint listening")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the inbound endpoint.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleExchange(w http.ResponseWriter, r *http.Request) {
	var envelope models.Envelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		s.logger.Err(err).Str("func", "handleExchange").Msg("error decoding envelope")
		http.Error(w, "malformed envelope", http.StatusBadRequest)
		return
	}

	// handler errors stay local: the relay only needs to know we took
	// delivery, peers learn nothing about our processing outcome
	if err := s.handler(r.Context(), envelope); err != nil {
		s.logger.Err(err).
			Str("func", "handleExchange").
			Str("sessionID", envelope.ThreadID).
			Str("control", envelope.Control).
			Msg("error handling inbound envelope")
	}

	w.WriteHeader(http.StatusNoContent)
}
