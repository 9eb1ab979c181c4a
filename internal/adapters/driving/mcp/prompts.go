package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "ask_docs",
		Description: "Answer a question using only the team knowledge base",
		Arguments: []*mcp.PromptArgument{
			{Name: "question", Description: "What you want to know", Required: true},
		},
	}, s.askDocsPrompt)
}

func (s *Server) askDocsPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	question := strings.TrimSpace(req.Params.Arguments["question"])
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}

	text := fmt.Sprintf(`Answer the question below from the DocuHub knowledge base.
Call the "search" tool with the question, then read any cited document with
"get_document" if the answer needs more detail. Name the documents you used.
If nothing relevant is found, say so instead of guessing.

Question: %s`, question)

	return &mcp.GetPromptResult{
		Description: "Knowledge base question",
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}
