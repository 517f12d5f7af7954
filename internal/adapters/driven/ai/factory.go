// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	geminiembed "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/embedding/openai"
	geminiimage "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/image/gemini"
	geminillm "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/llm/gemini"
	openaillm "github.com/Arlieeee/StudyBuddy-AI/internal/adapters/driven/llm/openai"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// CreateEmbeddingService creates the appropriate embedding service
// based on settings. Returns nil if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: settings.VectorDimensions(),
		})

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: settings.VectorDimensions(),
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateTextService creates the appropriate text generation service
// based on settings. Returns nil if the provider is not configured.
func CreateTextService(ctx context.Context, settings *domain.TextSettings) (driven.TextService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewTextService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewTextService(openaillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported text provider: %s", settings.Provider)
	}
}

// CreateImageService creates the appropriate image generation service
// based on settings. Returns nil if the provider is not configured.
// Only Gemini image models are supported.
func CreateImageService(ctx context.Context, settings *domain.ImageSettings) (driven.ImageService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminiimage.NewImageService(ctx, geminiimage.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderOpenAI:
		return nil, fmt.Errorf("openai image generation is not supported, use gemini")

	default:
		return nil, fmt.Errorf("unsupported image provider: %s", settings.Provider)
	}
}
