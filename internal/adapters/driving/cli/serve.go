package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docuhub-cli/internal/adapters/driving/watcher"
)

var (
	serveAddr     string
	serveWatchDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve search and the document library over HTTP.

Endpoints:
  GET    /healthz
  POST   /api/search              {"query": "...", "limit": 5}
  GET    /api/documents
  GET    /api/documents/:id
  POST   /api/documents           JSON document
  POST   /api/documents/upload    multipart file upload
  DELETE /api/documents/:id
  GET    /api/stats

With --watch, files created or changed in the directory are ingested, and a
changed file replaces its earlier document.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "directory to ingest and watch for changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errNoSearchService
	}
	if documentService == nil {
		return errNoDocumentService
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
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

	g, ctx := errgroup.WithContext(ctx)

	if serveWatchDir != "" {
		ingester := fileIngester
		if ingester == nil {
			ingester = watcher.NewIngester(documentService)
		}
		w := watcher.New(serveWatchDir, ingester, watcher.WithInitialScan())
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				return fmt.Errorf("watch %s: %w", serveWatchDir, err)
			}
			return nil
		})
		cmd.Printf("Watching %s for documents\n", serveWatchDir)
	}

	g.Go(func() error {
		watchPrompts(ctx)
		return nil
	})
	g.Go(func() error {
		return server.Listen(ctx, serveAddr)
	})
	cmd.Printf("HTTP API listening on %s\n", serveAddr)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
