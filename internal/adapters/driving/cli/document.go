package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuhub-cli/internal/core/domain"
	"github.com/custodia-labs/docuhub-cli/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc", "docs"},
	Short:   "Manage the document library",
	Long:    `List, view, add, or delete documents in the knowledge base.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document metadata and summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:     "delete [doc-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a document",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentDelete,
}

var documentAddCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a document",
	Long: `Add a document from a file or from text given with --text.

Supported files: plain text, Markdown, HTML, JSON and Word (.docx).
The text is summarised and tagged by the configured language model; without
one the document is stored without a summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocumentAdd,
}

var documentStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	Args:  cobra.NoArgs,
	RunE:  runDocumentStats,
}

var (
	listTitle      string
	listCategory   string
	listDepartment string
	listJSON       bool

	addText       string
	addTitle      string
	addAuthor     string
	addVersion    string
	addDepartment string
	addCategory   string
	addTags       []string

	statsJSON bool
)

func init() {
	documentListCmd.Flags().StringVarP(&listTitle, "title", "t", "", "only documents whose title contains this text")
	documentListCmd.Flags().StringVar(&listCategory, "category", "", "only documents in this category")
	documentListCmd.Flags().StringVar(&listDepartment, "department", "", "only documents from this department")
	documentListCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	documentAddCmd.Flags().StringVar(&addText, "text", "", "document text (instead of a file)")
	documentAddCmd.Flags().StringVar(&addTitle, "title", "", "document title (default: file name)")
	documentAddCmd.Flags().StringVar(&addAuthor, "author", "", "document author")
	documentAddCmd.Flags().StringVar(&addVersion, "version", "", "document version")
	documentAddCmd.Flags().StringVar(&addDepartment, "department", "", "owning department")
	documentAddCmd.Flags().StringVar(&addCategory, "category", "", "category (SRS, Data Dictionary, CRF, Integration, Technical, General)")
	documentAddCmd.Flags().StringSliceVar(&addTags, "tags", nil, "tags, in addition to generated ones")

	documentStatsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentAddCmd)
	documentCmd.AddCommand(documentStatsCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	filtered, err := documentService.List(cmd.Context(), domain.ListFilter{
		Title:      listTitle,
		Category:   listCategory,
		Department: listDepartment,
	})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if listJSON {
		return printJSON(cmd, filtered)
	}

	if len(filtered) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range filtered {
		doc := &filtered[i]
		cmd.Printf("  %s\n", doc.ID)
		cmd.Printf("    Title:    %s\n", doc.Title)
		cmd.Printf("    Category: %s\n", doc.Category)
		if doc.Department != "" {
			cmd.Printf("    Dept:     %s\n", doc.Department)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(filtered))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	printDocument(cmd, doc)
	return nil
}

func printDocument(cmd *cobra.Command, doc *domain.Document) {
	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  Category:   %s\n", doc.Category)
	if doc.Department != "" {
		cmd.Printf("  Department: %s\n", doc.Department)
	}
	if doc.Author != "" {
		cmd.Printf("  Author:     %s\n", doc.Author)
	}
	if doc.Version != "" {
		cmd.Printf("  Version:    %s\n", doc.Version)
	}
	if !doc.UploadDate.IsZero() {
		cmd.Printf("  Uploaded:   %s\n", doc.UploadDate.Local().Format("2006-01-02 15:04:05"))
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("  Tags:       %s\n", strings.Join(doc.Tags, ", "))
	}
	if summary := doc.SummaryText(); summary != "" {
		cmd.Printf("\n  Summary:\n    %s\n", summary)
	}
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.RawText)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	// The service tolerates absent IDs; a typo on the command line should not.
	if _, err := documentService.Get(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}

func runDocumentAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	req := driving.IngestRequest{
		RawText:    addText,
		Title:      addTitle,
		Author:     addAuthor,
		Version:    addVersion,
		Department: addDepartment,
		Category:   addCategory,
		Tags:       addTags,
	}

	switch {
	case len(args) == 1 && addText != "":
		return fmt.Errorf("%w: give a file or --text, not both", domain.ErrInvalidInput)
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		req.FileName = filepath.Base(args[0])
		req.Content = content
	case strings.TrimSpace(addText) == "":
		return fmt.Errorf("%w: give a file or --text", domain.ErrInvalidInput)
	}

	doc, err := documentService.Ingest(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Println("Added document.")
	cmd.Println()
	printDocument(cmd, doc)
	return nil
}

func runDocumentStats(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNoDocumentService
	}

	stats, err := documentService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if statsJSON {
		return printJSON(cmd, stats)
	}

	cmd.Printf("Total documents: %d\n", stats.TotalDocuments)

	cmd.Println("\nBy category:")
	for _, e := range stats.ByCategory {
		cmd.Printf("  %-18s %d\n", e.Name, e.Value)
	}

	if len(stats.ByDepartment) > 0 {
		cmd.Println("\nBy department:")
		for _, e := range stats.ByDepartment {
			cmd.Printf("  %-18s %d\n", e.Name, e.Value)
		}
	}

	if len(stats.Recent) > 0 {
		cmd.Println("\nRecent uploads:")
		for i := range stats.Recent {
			cmd.Printf("  %s  %s\n", stats.Recent[i].UploadDate.Local().Format("2006-01-02"), stats.Recent[i].Title)
		}
	}

	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
