package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest study documents",
	Long: `Extracts text from the given files, splits it into chunks, embeds the
chunks and indexes them for retrieval. Supported formats: pdf, docx,
pptx, txt. Re-ingesting a file replaces its previous chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if ingestService == nil {
		return notConfigured("embedding provider", "GEMINI_API_KEY or OPENAI_API_KEY")
	}

	var failed int
	for _, path := range args {
		if err := ingestFile(cmd, path); err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(cmd *cobra.Command, path string) error {
	fileType, err := domain.ParseFileType(filepath.Ext(path))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	cmd.Printf("Ingesting %s...\n", filepath.Base(path))

	doc, err := ingestService.Ingest(cmd.Context(), driving.IngestRequest{
		Filename: filepath.Base(path),
		FileType: fileType,
		Data:     data,
	})
	if err != nil {
		return err
	}

	cmd.Printf("  %s: %d chunks indexed (id %s)\n", doc.Filename, doc.ChunkCount, doc.ID)
	return nil
}
