package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
)

// errNoDocumentService is returned by document tools when the library is not wired.
var errNoDocumentService = errors.New("document service not configured")

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the question or keywords to search for"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 5)"`
	SkipAnswer bool   `json:"skip_answer,omitempty" jsonschema:"return ranked documents without a synthesized answer"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Performed      bool           `json:"performed"`
	Answer         string         `json:"answer"`
	AnswerStatus   string         `json:"answer_status"`
	Defaulted      []string       `json:"defaulted_fields,omitempty"`
	RelevantDocIDs []string       `json:"relevant_doc_ids"`
	Results        []DocumentInfo `json:"results"`
	Count          int            `json:"count"`
}

// DocumentInfo summarises a document in tool output.
type DocumentInfo struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Department string   `json:"department,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Score      int      `json:"score,omitempty"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document ID"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	DocumentInfo
	Author     string `json:"author,omitempty"`
	Version    string `json:"version,omitempty"`
	UploadDate string `json:"upload_date"`
	Content    string `json:"content"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Title      string `json:"title,omitempty" jsonschema:"only documents whose title contains this text"`
	Category   string `json:"category,omitempty" jsonschema:"only documents in this category"`
	Department string `json:"department,omitempty" jsonschema:"only documents owned by this department"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the knowledge base and answer a question from the best matching documents",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Fetch a document's metadata and full text by ID",
	}, s.handleGetDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List documents in the knowledge base, optionally filtered by title, category or department",
	}, s.handleListDocuments)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit, SkipSynthesis: input.SkipAnswer}
	outcome, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Performed:      outcome.Performed,
		Answer:         outcome.Synthesis.Answer,
		AnswerStatus:   string(outcome.Synthesis.Status),
		Defaulted:      outcome.Synthesis.Defaulted,
		RelevantDocIDs: outcome.Synthesis.RelevantDocIDs,
		Results:        make([]DocumentInfo, len(outcome.Results)),
		Count:          len(outcome.Results),
	}
	if output.RelevantDocIDs == nil {
		output.RelevantDocIDs = []string{}
	}

	for i, r := range outcome.Results {
		output.Results[i] = newDocumentInfo(&r.Document)
		output.Results[i].Score = r.Score
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, GetDocumentOutput{}, errNoDocumentService
	}

	doc, err := s.ports.Document.Get(ctx, strings.TrimSpace(input.DocumentID))
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	return nil, GetDocumentOutput{
		DocumentInfo: newDocumentInfo(doc),
		Author:       doc.Author,
		Version:      doc.Version,
		UploadDate:   doc.UploadDate.UTC().Format("2006-01-02T15:04:05Z"),
		Content:      doc.RawText,
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, errNoDocumentService
	}

	docs, err := s.ports.Document.List(ctx, domain.ListFilter{
		Title:      input.Title,
		Category:   input.Category,
		Department: input.Department,
	})
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{Documents: make([]DocumentInfo, 0, len(docs))}
	for i := range docs {
		output.Documents = append(output.Documents, newDocumentInfo(&docs[i]))
	}
	output.Count = len(output.Documents)

	return nil, output, nil
}

func newDocumentInfo(doc *domain.Document) DocumentInfo {
	return DocumentInfo{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Category:   doc.Category.String(),
		Department: doc.Department,
		Tags:       doc.Tags,
		Summary:    doc.SummaryText(),
	}
}
