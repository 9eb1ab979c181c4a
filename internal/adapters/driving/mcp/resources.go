package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

const (
	libraryURI  = "docuhub://documents"
	documentURI = libraryURI + "/"
	statsURI    = "docuhub://stats"

	mimeJSON = "application/json"
	mimeText = "text/plain"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         libraryURI,
		Name:        "documents",
		Description: "Every document in the knowledge base, without its text",
		MIMEType:    mimeJSON,
	}, s.readLibrary)

	s.server.AddResource(&mcp.Resource{
		URI:         statsURI,
		Name:        "stats",
		Description: "Document counts by category and department, and the latest uploads",
		MIMEType:    mimeJSON,
	}, s.readStats)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentURI + "{documentId}",
		Name:        "document",
		Description: "The extracted text of one document",
		MIMEType:    mimeText,
	}, s.readDocument)
}

func (s *Server) readLibrary(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	infos := []DocumentInfo{}
	if s.ports.Document != nil {
		docs, err := s.ports.Document.List(ctx, domain.ListFilter{})
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		for i := range docs {
			infos = append(infos, newDocumentInfo(&docs[i]))
		}
	}
	return jsonContents(req.Params.URI, infos)
}

func (s *Server) readStats(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonContents(req.Params.URI, domain.Stats{})
	}
	stats, err := s.ports.Document.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing stats: %w", err)
	}
	return jsonContents(req.Params.URI, stats)
}

func (s *Server) readDocument(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, ok := documentIDFromURI(uri)
	if !ok || s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	doc, err := s.ports.Document.Get(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, mcp.ResourceNotFoundError(uri)
	case err != nil:
		return nil, fmt.Errorf("reading document %s: %w", id, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeText, Text: doc.RawText}},
	}, nil
}

func jsonContents(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeJSON, Text: string(data)}},
	}, nil
}

// documentIDFromURI extracts id from docuhub://documents/{id}.
func documentIDFromURI(uri string) (string, bool) {
	id, found := strings.CutPrefix(uri, documentURI)
	if !found || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
