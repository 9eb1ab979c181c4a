package httpapi

import (
	"io"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validate(s.validate, &req); err != nil {
		return err
	}

	outcome, err := s.ports.Search.Search(c.UserContext(), req.Query, domain.SearchOptions{
		Limit:         req.Limit,
		SkipSynthesis: req.SkipAnswer,
	})
	if err != nil {
		return err
	}
	return c.JSON(newSearchResponse(outcome))
}

// handleListDocuments lists documents most recent first.
// Optional filters: ?title= (substring), ?category= and ?department=, all
// case-insensitive.
func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	docs, err := s.ports.Document.List(c.UserContext(), domain.ListFilter{
		Title:      c.Query("title"),
		Category:   c.Query("category"),
		Department: c.Query("department"),
	})
	if err != nil {
		return err
	}

	slices.Reverse(docs)
	slices.SortStableFunc(docs, func(a, b domain.Document) int {
		return b.UploadDate.Compare(a.UploadDate)
	})
	return c.JSON(docs)
}

func (s *Server) handleGetDocument(c *fiber.Ctx) error {
	doc, err := s.ports.Document.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

func (s *Server) handleCreateDocument(c *fiber.Ctx) error {
	var req createDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validate(s.validate, &req); err != nil {
		return err
	}

	doc, err := s.ports.Document.Ingest(c.UserContext(), driving.IngestRequest{
		ID:         req.ID,
		RawText:    req.RawText,
		Title:      req.Title,
		Author:     req.Author,
		Version:    req.Version,
		Department: req.Department,
		Category:   req.Category,
		Tags:       req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// handleUploadDocument ingests a multipart file. Metadata comes from
// form fields; tags are comma separated.
func (s *Server) handleUploadDocument(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return NewError(fiber.StatusBadRequest, "missing file field")
	}

	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return NewValidationError(map[string]string{"file": "file is empty"})
	}

	doc, err := s.ports.Document.Ingest(c.UserContext(), driving.IngestRequest{
		FileName:   header.Filename,
		Content:    content,
		Title:      c.FormValue("title"),
		Author:     c.FormValue("author"),
		Version:    c.FormValue("version"),
		Department: c.FormValue("department"),
		Category:   c.FormValue("category"),
		Tags:       splitTags(c.FormValue("tags")),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (s *Server) handleDeleteDocument(c *fiber.Ctx) error {
	if err := s.ports.Document.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	stats, err := s.ports.Document.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
