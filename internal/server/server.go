// Package server exposes the surface catalog over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/catalog"
	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/internal/logger"
)

// maxGeometryBody bounds POST /mesh request bodies.
const maxGeometryBody = 1 << 20

// Server serves surface lookups and mesh downloads.
type Server struct {
	catalog *catalog.Catalog
	cfg     config.ServerConfig
	log     *zap.Logger
}

// New creates a server over c.
func New(c *catalog.Catalog, cfg config.ServerConfig) *Server {
	return &Server{
		catalog: c,
		cfg:     cfg,
		log:     logger.Named("server"),
	}
}

// Router returns the bare route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/surfaces", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/surfaces/{name}", s.handleInfo).Methods(http.MethodGet)
	r.HandleFunc("/surfaces/{name}/mesh", s.handleMesh).Methods(http.MethodGet)
	r.HandleFunc("/surfaces/{name}/world", s.handleWorld).Methods(http.MethodGet)
	r.HandleFunc("/surfaces/{name}/texcoord", s.handleTexcoord).Methods(http.MethodGet)
	r.HandleFunc("/surfaces/{name}/intersect", s.handleIntersect).Methods(http.MethodPost)
	r.HandleFunc("/mesh", s.handleBuildMesh).Methods(http.MethodPost)
	return r
}

// Handler returns the route table wrapped with access logging, panic
// recovery and compression.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.log)),
		handlers.PrintRecoveryStack(true),
	)(h)
	return handlers.LoggingHandler(logger.Writer("http"), h)
}

// ListenAndServe serves until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr), zap.Int("surfaces", s.catalog.Len()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
