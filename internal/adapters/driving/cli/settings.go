package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/config/file"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runSettingsPath,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Printf("Embedding:  %s / %s (%d dims)%s\n",
		settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.VectorDimensions(), configuredMark(settings.Embedding.IsConfigured()))
	cmd.Printf("Text:       %s / %s%s\n",
		settings.Text.Provider, settings.Text.Model, configuredMark(settings.Text.IsConfigured()))
	cmd.Printf("Image:      %s / %s%s\n",
		settings.Image.Provider, settings.Image.Model, configuredMark(settings.Image.IsConfigured()))
	cmd.Printf("Retrieval:  top %d, floor %.2f, budget %d chars\n",
		settings.Retrieval.TopK, settings.Retrieval.MinRelevance, settings.Retrieval.PassageBudget)
	cmd.Printf("Chunking:   %d chars, %d overlap\n",
		settings.Chunking.Size, settings.Chunking.Overlap)
	cmd.Printf("Limits:     %d concurrent, %ds queue, %d history turns, %d context chars\n",
		settings.Limits.MaxConcurrent, settings.Limits.QueueTimeoutSeconds,
		settings.Limits.HistoryWindow, settings.Limits.ContextBudget)
	cmd.Printf("Data dir:   %s\n", dataDir())
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	store, err := configfile.NewSettingsStore("")
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func configuredMark(ok bool) string {
	if ok {
		return ""
	}
	return " (no API key)"
}
