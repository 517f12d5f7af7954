package cli

import (
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
	Long:  `List or remove documents from the index.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if ingestService == nil {
		return notConfigured("embedding provider", "GEMINI_API_KEY or OPENAI_API_KEY")
	}

	docs, err := ingestService.List(ctx)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:    %s (%s)\n", docs[i].Filename, docs[i].FileType)
		cmd.Printf("    Status:  %s\n", docs[i].Status)
		cmd.Printf("    Chunks:  %d\n", docs[i].ChunkCount)
		cmd.Printf("    Created: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if ingestService == nil {
		return notConfigured("embedding provider", "GEMINI_API_KEY or OPENAI_API_KEY")
	}

	docID := args[0]
	if err := ingestService.Remove(ctx, docID); err != nil {
		return err
	}

	cmd.Printf("Document %s removed.\n", docID)
	return nil
}
