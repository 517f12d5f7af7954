package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
)

var (
	askStream bool
	askDocs   []string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your study material",
	Long: `Retrieves the most relevant passages from your indexed documents and
answers the question grounded in them. When nothing relevant is
indexed the answer says so instead of pretending.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "Stream the answer as it is generated")
	askCmd.Flags().StringSliceVar(&askDocs, "doc", nil, "Restrict retrieval to these document ids (repeatable)")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if askService == nil {
		return notConfigured("text provider", "GEMINI_API_KEY or OPENAI_API_KEY")
	}

	req := driving.AskRequest{
		Question:    strings.Join(args, " "),
		DocumentIDs: askDocs,
	}

	if askStream {
		return streamAnswer(cmd, req)
	}

	result, err := askService.Ask(ctx, req)
	if err != nil {
		return err
	}

	cmd.Println(result.Answer)
	printSources(cmd, result.Sources)
	return nil
}

func streamAnswer(cmd *cobra.Command, req driving.AskRequest) error {
	sources, chunks, err := askService.AskStream(cmd.Context(), req)
	if err != nil {
		return err
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			cmd.Println()
			return chunk.Err
		}
		cmd.Print(chunk.Text)
	}
	cmd.Println()

	printSources(cmd, sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.SourceRef) {
	if len(sources) == 0 {
		return
	}
	cmd.Println("\nSources:")
	for i, src := range sources {
		cmd.Printf("  [%d] %s (relevance %.2f)\n", i+1, src.DocumentName, src.RelevanceScore)
	}
}
