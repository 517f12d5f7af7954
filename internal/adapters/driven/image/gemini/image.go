// Package gemini implements image rendering backed by the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// DefaultModel is the image model used when none is configured.
const DefaultModel = "gemini-2.0-flash-preview-image-generation"

// Config holds the settings needed to construct an ImageService.
type Config struct {
	APIKey string
	Model  string
}

// ImageService renders images through the Gemini API.
type ImageService struct {
	client    *genai.Client
	modelName string
}

var _ driven.ImageService = (*ImageService)(nil)

// NewImageService creates a Gemini-backed image service.
func NewImageService(ctx context.Context, cfg Config) (*ImageService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", domain.ErrValidation)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &ImageService{client: client, modelName: model}, nil
}

// Render produces image bytes plus a short textual description. The
// aspect ratio is folded into the prompt since the preview image models
// take it as an instruction rather than a request parameter.
func (s *ImageService) Render(ctx context.Context, prompt string, aspectRatio string) (*driven.RenderResult, error) {
	model := s.client.GenerativeModel(s.modelName)

	full := prompt
	if aspectRatio != "" {
		full = fmt.Sprintf("%s\n\nAspect ratio: %s.", prompt, aspectRatio)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return nil, wrapErr("render", err)
	}

	result := extractResult(resp)
	if len(result.Image) == 0 {
		return nil, domain.NewPermanentProviderError("render", fmt.Errorf("model returned no image data"))
	}
	return result, nil
}

// ModelName returns the name of the image model being used.
func (s *ImageService) ModelName() string {
	return s.modelName
}

// Close releases the underlying client.
func (s *ImageService) Close() error {
	return s.client.Close()
}

// extractResult pulls the first inline image and any accompanying text
// out of the candidate parts.
func extractResult(resp *genai.GenerateContentResponse) *driven.RenderResult {
	result := &driven.RenderResult{}
	var description strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Blob:
				if len(result.Image) == 0 {
					result.Image = p.Data
					result.MIMEType = p.MIMEType
				}
			case genai.Text:
				description.WriteString(string(p))
			}
		}
	}
	result.Description = strings.TrimSpace(description.String())
	return result
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	transient := strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "500") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "deadline exceeded")
	if transient {
		return domain.NewTransientProviderError(op, err)
	}
	return domain.NewPermanentProviderError(op, err)
}
