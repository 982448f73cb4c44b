// Package api serves the local status endpoint over a unix socket or, on
// Windows, a named pipe, and provides the matching client.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"portalkombat/internal/handler"
)

const shutdownTimeout = 5 * time.Second

// Server is the status API
type Server struct {
	addr   string
	status *handler.StatusHandler
	events http.Handler
}

// NewServer creates a server for addr (socket path or pipe name). events
// may be nil, in which case /v1/events is not routed.
func NewServer(addr string, status *handler.StatusHandler, events http.Handler) *Server {
	return &Server{addr: addr, status: status, events: events}
}

// Router builds the chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.status.GetStatus)
		r.Get("/history", s.status.GetHistory)
		if s.events != nil {
			r.Get("/events", s.events.ServeHTTP)
		}
	})

	return r
}

// Serve listens on the configured address until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	ln, err := Listen(s.addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done, then shuts down gracefully
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.WithField("addr", ln.Addr().String()).Info("Status API listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// SSE streams never finish on their own
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
		return nil
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).Round(time.Microsecond),
		}).Debug("Status API request")
	})
}
