// Package watcher ingests files from disk into the document library, either
// once at start or continuously as files in a watched directory change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuhub-cli/internal/logger"
)

// MaxFileSize is the largest file the ingester will read.
const MaxFileSize = 20 << 20

// Ingester turns files into documents and remembers which document each
// path produced, so a rewritten file replaces its previous document.
type Ingester struct {
	docs driving.DocumentService

	mu     sync.Mutex
	byPath map[string]string
}

// NewIngester creates an ingester backed by docs.
func NewIngester(docs driving.DocumentService) *Ingester {
	return &Ingester{
		docs:   docs,
		byPath: make(map[string]string),
	}
}

// IngestFile reads path and stores it as a new document. If path was
// ingested before, the earlier document is deleted once the new one is
// stored; when ingestion fails the earlier document stays.
func (i *Ingester) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, path, MaxFileSize)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	doc, err := i.docs.Ingest(ctx, driving.IngestRequest{
		FileName: filepath.Base(abs),
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	if prev, ok := i.byPath[abs]; ok && prev != doc.ID {
		if err := i.docs.Delete(ctx, prev); err != nil {
			logger.Warn("Keeping stale document %s for %s: %v", prev, abs, err)
		} else {
			logger.Debug("Replaced document %s for %s", prev, abs)
		}
	}
	i.byPath[abs] = doc.ID
	logger.Event("ingested file", "path", abs, "id", doc.ID, "title", doc.Title)
	return doc, nil
}

// Remove deletes the document previously ingested from path, if any.
func (i *Ingester) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	id, ok := i.byPath[abs]
	if !ok {
		return nil
	}
	if err := i.docs.Delete(ctx, id); err != nil {
		return err
	}
	delete(i.byPath, abs)
	logger.Event("removed file", "path", abs, "id", id)
	return nil
}

// DocumentID returns the document currently held for path.
func (i *Ingester) DocumentID(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	id, ok := i.byPath[abs]
	return id, ok
}

// IngestPath ingests a single file, or every regular file under a directory.
// Hidden files and directories are skipped, as are files of unsupported type.
// It returns the documents stored and any per-file errors joined together.
func (i *Ingester) IngestPath(ctx context.Context, path string) ([]*domain.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		doc, err := i.IngestFile(ctx, path)
		if err != nil {
			return nil, err
		}
		return []*domain.Document{doc}, nil
	}

	var (
		docs []*domain.Document
		errs []error
	)
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p != path && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		doc, err := i.IngestFile(ctx, p)
		switch {
		case errors.Is(err, domain.ErrUnsupportedType):
			logger.Debug("Skipping %s: unsupported type", p)
		case err != nil:
			errs = append(errs, err)
		default:
			docs = append(docs, doc)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return docs, errors.Join(errs...)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~")
}
