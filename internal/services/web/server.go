// Package web hosts the portfolio HTTP surface.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/showcase/internal/content"
	"github.com/louisbranch/showcase/internal/platform/httpx"
	"github.com/louisbranch/showcase/internal/platform/timeouts"
	"github.com/louisbranch/showcase/internal/services/web/static"
)

// DefaultLocale is used when no locales are configured.
const DefaultLocale = "en-us"

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr  string
	Provider  content.Provider
	Locales   *content.Locales
	Analytics string
	Logger    *log.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root handler with page routes, embedded assets and
// the not-found fallback.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Provider == nil {
		return nil, errors.New("content provider is required")
	}
	if cfg.Locales == nil {
		locales, err := content.NewLocales([]string{DefaultLocale})
		if err != nil {
			return nil, fmt.Errorf("default locales: %w", err)
		}
		cfg.Locales = locales
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{
		provider:  cfg.Provider,
		locales:   cfg.Locales,
		analytics: cfg.Analytics,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", httpx.Chain(
		http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))),
		httpx.RequireMethod(http.MethodGet),
	))
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /index", h.index)
	mux.HandleFunc("GET /about", h.about)
	mux.HandleFunc("GET /essays", h.essays)
	mux.HandleFunc("GET /case/{uid}", h.caseStudy)
	mux.HandleFunc("/", h.notFound)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.Trace(),
		httpx.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
