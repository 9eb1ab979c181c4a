package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/mcp"
)

var mcpAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the knowledge base to AI assistants",
	Long:  `Model Context Protocol integration for AI assistants and IDEs.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Run a Model Context Protocol server over the knowledge base.

Tools:      search, get_document, list_documents
Resources:  docuhub://documents, docuhub://documents/{documentId}, docuhub://stats
Prompts:    ask_docs

The server talks JSON-RPC over stdin/stdout, which is what desktop assistants
expect when they launch it as a subprocess:

  {"mcpServers": {"docuhub": {"command": "docuhub", "args": ["mcp", "serve"]}}}

With --addr it serves the streamable HTTP transport instead, for the MCP
Inspector or remote clients:

  docuhub mcp serve --addr :8090`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "HTTP listen address (stdio when empty)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Search:   searchService,
		Document: documentService,
	})
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if mcpAddr == "" {
		return server.Serve(ctx)
	}
	cmd.PrintErrf("MCP server listening on %s\n", mcpAddr)
	return server.ServeHTTP(ctx, mcpAddr)
}
