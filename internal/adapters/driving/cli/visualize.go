package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

var (
	visualizeStyle  string
	visualizeAspect string
	visualizeDocs   []string
	visualizeOutput string
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize [topic]",
	Short: "Generate a knowledge diagram from your study material",
	Long: `Plans a diagram of the topic grounded in your indexed documents, then
renders it to an image file. Styles: mindmap, diagram, educational,
infographic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVisualize,
}

func init() {
	visualizeCmd.Flags().StringVar(&visualizeStyle, "style", "educational", "Visual style of the diagram")
	visualizeCmd.Flags().StringVar(&visualizeAspect, "aspect", "", "Aspect ratio, e.g. 16:9")
	visualizeCmd.Flags().StringSliceVar(&visualizeDocs, "doc", nil, "Restrict grounding to these document ids (repeatable)")
	visualizeCmd.Flags().StringVarP(&visualizeOutput, "output", "o", "diagram.png", "Output image path")

	rootCmd.AddCommand(visualizeCmd)
}

func runVisualize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}
	if visualizeService == nil {
		return notConfigured("image provider", "GEMINI_API_KEY")
	}

	topic := strings.Join(args, " ")
	cmd.Printf("Planning diagram for %q...\n", topic)

	viz, err := visualizeService.Visualize(ctx, domain.VisualizationRequest{
		Prompt:      topic,
		Style:       domain.VisualizationStyle(visualizeStyle),
		DocumentIDs: visualizeDocs,
		AspectRatio: visualizeAspect,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(visualizeOutput, viz.Image, 0600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	cmd.Printf("Wrote %s (%d bytes, %s)\n", visualizeOutput, len(viz.Image), viz.MIMEType)
	if viz.Description != "" {
		cmd.Printf("\n%s\n", viz.Description)
	}
	return nil
}
