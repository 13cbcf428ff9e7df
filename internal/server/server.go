package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/dygy/tunescribe/internal/conversion"
	"github.com/dygy/tunescribe/internal/store"
)

// Config holds server configuration
type Config struct {
	Port          int
	MaxUploadSize int64
}

// Server is the HTTP API
type Server struct {
	config  Config
	router  *chi.Mux
	logger  logrus.FieldLogger
	gateway *conversion.Gateway
	history *store.Store
}

// New creates a new server
func New(cfg Config, gateway *conversion.Gateway, history *store.Store, logger logrus.FieldLogger) *Server {
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		gateway: gateway,
		history: history,
	}

	s.setupRoutes()
	return s
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1/midis", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleConvert)
		r.Get("/{id}", s.handleDownload)
	})
}

// requestLogger logs one line per request through logrus
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).Round(time.Millisecond),
		}).Info("request")
	})
}

// Run starts the server and blocks until SIGINT/SIGTERM
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  2 * time.Minute, // large uploads
		WriteTimeout: 5 * time.Minute, // transcription runs inside the request
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		s.logger.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.WithError(err).Error("shutdown error")
		}
		close(done)
	}()

	s.logger.WithField("port", s.config.Port).Info("server starting")

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	<-done
	return nil
}
