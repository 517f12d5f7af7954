package cli

import (
	"github.com/spf13/cobra"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
)

var (
	recommendMode string
	recommendDocs []string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest questions or diagram topics from your material",
	Long: `Samples your indexed documents and suggests follow-up prompts. Mode
"chat" suggests questions to ask; mode "visualization" suggests
diagram topics.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendMode, "mode", "chat", "Suggestion mode: chat or visualization")
	recommendCmd.Flags().StringSliceVar(&recommendDocs, "doc", nil, "Restrict sampling to these document ids (repeatable)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if recommendService == nil {
		return notConfigured("text provider", "GEMINI_API_KEY or OPENAI_API_KEY")
	}

	topics, err := recommendService.Topics(ctx, driving.RecommendRequest{
		Mode:        domain.RecommendMode(recommendMode),
		DocumentIDs: recommendDocs,
	})
	if err != nil {
		return err
	}

	if len(topics) == 0 {
		cmd.Println("No suggestions yet. Ingest some documents first.")
		return nil
	}

	for i, topic := range topics {
		cmd.Printf("%d. [%s] %s\n", i+1, topic.Type.Label(), topic.Title)
		if topic.Description != "" {
			cmd.Printf("   %s\n", topic.Description)
		}
		cmd.Printf("   Prompt: %s\n\n", topic.Prompt)
	}
	return nil
}
