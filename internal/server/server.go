// Package server exposes the assistant over a JSON HTTP API.
package server

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-playground/validator/v10"

	"github.com/raqiba/Weather-ChatBot/internal/assistant"
)

//go:embed openapi.yaml
var openAPIDoc []byte

// Server is the weatherbot HTTP server.
type Server struct {
	addr      string
	version   string
	startTime time.Time
	logger    *slog.Logger

	assistant atomic.Pointer[assistant.Assistant]
	router    routers.Router
	validate  *validator.Validate
}

// New creates a Server answering with a. It fails only if the embedded API
// document does not load.
func New(addr, version string, a *assistant.Assistant, logger *slog.Logger) (*Server, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDoc)
	if err != nil {
		return nil, fmt.Errorf("server: loading api document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("server: invalid api document: %w", err)
	}
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("server: building router: %w", err)
	}

	s := &Server{
		addr:      addr,
		version:   version,
		startTime: time.Now(),
		logger:    logger,
		router:    router,
		validate:  newValidator(),
	}
	s.assistant.Store(a)
	return s, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Swap replaces the assistant for subsequent requests. In-flight turns finish
// on the previous one.
func (s *Server) Swap(a *assistant.Assistant) { s.assistant.Store(a) }

// Handler returns the API routes behind request validation.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/openapi.yaml", s.handleOpenAPI)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/sessions/{id}/messages", s.handlePostMessage)
	return s.validateRequest(mux)
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start listener so we can log the actual port.
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	s.logger.Info("api server started", "addr", ln.Addr().String())

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
