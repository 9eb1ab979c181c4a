// Package mcp serves the knowledge base over the Model Context Protocol so
// assistants can search it and read documents.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// ErrMissingSearchService is returned by NewServer without a search service.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// Version is reported to clients during initialisation.
const Version = "0.1.0"

const instructions = `DocuHub is a team knowledge base of requirement specs, data dictionaries,
technical and business documents. Use "search" to answer a question from the
best matching documents; the answer cites document IDs you can read with
"get_document" or the docuhub://documents/{documentId} resource.`

// Ports are the services the server exposes. Document is optional; without
// it the library tools report that no documents are available.
type Ports struct {
	Search   driving.SearchService
	Document driving.DocumentService
}

// Validate reports a missing search service.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// Server exposes DocuHub over the Model Context Protocol.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer builds a server with every tool, resource and prompt registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "docuhub", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s, nil
}

// Serve speaks JSON-RPC over stdin/stdout until ctx ends or the client
// disconnects.
func (s *Server) Serve(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// ServeHTTP listens on addr until ctx ends, then shuts down.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Debug("mcp: listening on %s", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
