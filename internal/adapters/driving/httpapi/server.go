// Package httpapi exposes search and the document library over HTTP.
package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// DefaultBodyLimit caps uploads.
const DefaultBodyLimit = 20 * 1024 * 1024

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Ports holds the services the API needs.
type Ports struct {
	Search   driving.SearchService
	Document driving.DocumentService
}

// Server is the HTTP API server.
type Server struct {
	app      *fiber.App
	ports    *Ports
	validate *validator.Validate
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if ports == nil || ports.Search == nil || ports.Document == nil {
		return nil, errors.New("httpapi: search and document services are required")
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "docuhub",
			ErrorHandler:          ErrorHandler,
			BodyLimit:             DefaultBodyLimit,
			DisableStartupMessage: true,
		}),
		ports:    ports,
		validate: newValidator(),
	}
	s.routes()
	return s, nil
}

// App returns the underlying fiber app, for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestLogger)

	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api")
	api.Post("/search", s.handleSearch)
	api.Get("/stats", s.handleStats)

	docs := api.Group("/documents")
	docs.Get("/", s.handleListDocuments)
	docs.Post("/", s.handleCreateDocument)
	docs.Post("/upload", s.handleUploadDocument)
	docs.Get("/:id", s.handleGetDocument)
	docs.Delete("/:id", s.handleDeleteDocument)
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return err
		}
		return <-errCh
	}
}

// requestLogger records each request as a structured event.
func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			status = fe.Code
		default:
			status = statusFor(err)
		}
	}
	logger.Event("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start).Round(time.Millisecond),
	)
	return err
}
