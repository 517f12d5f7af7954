// Package cli implements the studybuddy command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/ai"
	configfile "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/config/file"
	promptfile "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/prompts/file"
	"github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/storage/sqlite"
	"github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/vector/chromem"
	"github.com/Arlieeee/StudyBuddy-AI/internal/chunker"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/services"
	"github.com/Arlieeee/StudyBuddy-AI/internal/extractors"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Services wired during initServices. Commands check for nil and
// report configuration guidance instead of panicking.
var (
	settings         domain.AppSettings
	ingestService    driving.Ingestor
	askService       driving.Asker
	visualizeService driving.Visualizer
	recommendService driving.Recommender

	closers []io.Closer

	// servicesReady short-circuits initServices once wiring happened,
	// including when tests inject fakes.
	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "studybuddy",
	Short: "Study assistant grounded in your own material",
	Long: `StudyBuddy ingests your study documents, indexes them for retrieval,
and answers questions, draws diagrams and suggests follow-ups grounded
in what you uploaded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		// A .env in the working directory is a convenience for local
		// use; its absence is not an error.
		_ = godotenv.Load()

		return loadSettings()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		for _, c := range closers {
			c.Close()
		}
		closers = nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func loadSettings() error {
	store, err := configfile.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	settings, err = store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	applyEnvOverrides()
	return nil
}

// applyEnvOverrides lets API keys come from the environment so they
// never have to live in the config file.
func applyEnvOverrides() {
	gemini := os.Getenv("GEMINI_API_KEY")
	if gemini == "" {
		gemini = os.Getenv("GOOGLE_API_KEY")
	}
	openai := os.Getenv("OPENAI_API_KEY")

	apply := func(provider domain.AIProvider, key *string) {
		if *key != "" {
			return
		}
		switch provider {
		case domain.AIProviderGemini:
			*key = gemini
		case domain.AIProviderOpenAI:
			*key = openai
		}
	}
	apply(settings.Embedding.Provider, &settings.Embedding.APIKey)
	apply(settings.Text.Provider, &settings.Text.APIKey)
	apply(settings.Image.Provider, &settings.Image.APIKey)
}

// initServices builds the storage, index and provider adapters and
// wires the core services. Services whose provider is not configured
// are left nil; commands report guidance when they need one.
func initServices(ctx context.Context) error {
	if servicesReady {
		return nil
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	closers = append(closers, store)

	index, err := chromem.NewPersistentIndex(filepath.Join(dataDir(), "vectors"), settings.Embedding.VectorDimensions())
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	closers = append(closers, index)

	prompts, err := promptfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	closers = append(closers, prompts)

	embedder, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return err
	}
	if embedder != nil {
		closers = append(closers, embedder)
	}

	text, err := ai.CreateTextService(ctx, &settings.Text)
	if err != nil {
		return err
	}
	if text != nil {
		closers = append(closers, text)
	}

	image, err := ai.CreateImageService(ctx, &settings.Image)
	if err != nil {
		return err
	}
	if image != nil {
		closers = append(closers, image)
	}

	gate := services.NewProviderGate(
		settings.Limits.MaxConcurrent,
		time.Duration(settings.Limits.QueueTimeoutSeconds)*time.Second,
	)
	retrieverCfg := services.RetrieverConfig{
		TopK:          settings.Retrieval.TopK,
		MinRelevance:  settings.Retrieval.MinRelevance,
		PassageBudget: settings.Retrieval.PassageBudget,
	}
	assembly := services.AssemblyConfig{
		HistoryWindow: settings.Limits.HistoryWindow,
		Budget:        settings.Limits.ContextBudget,
	}

	if embedder != nil {
		ch := chunker.New(
			chunker.WithChunkSize(settings.Chunking.Size),
			chunker.WithOverlap(settings.Chunking.Overlap),
		)
		ingestService = services.NewIngestService(extractors.NewRegistry(), ch, embedder, index, store)

		retriever := services.NewRetriever(embedder, index, retrieverCfg)
		if text != nil {
			askService = services.NewAskService(retriever, text, prompts, gate, assembly)
			recommendService = services.NewRecommendService(retriever, text, prompts, store, gate)
			if image != nil {
				visualizeService = services.NewVisualizeService(retriever, text, image, prompts, gate)
			}
		}
	}

	servicesReady = true
	return nil
}

func dataDir() string {
	if settings.DataDir != "" {
		return settings.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studybuddy"
	}
	return filepath.Join(home, ".studybuddy", "data")
}

// notConfigured builds the guidance error shown when a command needs a
// provider that has no API key.
func notConfigured(what, envVar string) error {
	return fmt.Errorf("%s not configured: set %s or edit the config file", what, envVar)
}
