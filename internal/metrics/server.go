package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shhac/roboaccordion/internal/accordion"
)

// StateFunc reports the live accordion state.
type StateFunc func() accordion.State

type stateResponse struct {
	Expanded           int  `json:"expanded"`
	PreviouslyExpanded int  `json:"previously_expanded"`
	Transitioning      bool `json:"transitioning"`
}

// NewHandler serves /metrics from the collector and /state from state.
func NewHandler(c *Collector, state StateFunc) http.Handler {
	r := chi.NewRouter()

	r.Get("/metrics", promhttp.HandlerFor(c.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		s := state()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stateResponse{
			Expanded:           s.Expanded,
			PreviouslyExpanded: s.PreviouslyExpanded,
			Transitioning:      s.Transitioning,
		})
	})

	return r
}

// Server is the optional debug endpoint.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// Start listens on addr and serves handler in the background.
func Start(addr string, handler http.Handler, logger *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Server{
		srv:    &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
	logger.Info("metrics server listening", slog.String("addr", ln.Addr().String()))
	return s, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
