// Package gemini provides a text generation adapter using the Gemini
// API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// Ensure TextService implements the interface.
var _ driven.TextService = (*TextService)(nil)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds configuration for the Gemini text service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the text model to use (default: gemini-2.5-flash).
	Model string
}

// TextService generates text using the Gemini API.
type TextService struct {
	client    *genai.Client
	modelName string
}

// NewTextService creates a new Gemini text service.
func NewTextService(ctx context.Context, cfg Config) (*TextService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &TextService{
		client:    client,
		modelName: cfg.Model,
	}, nil
}

// newModel builds a per-call model with the given options applied.
func (s *TextService) newModel(opts driven.GenerateOptions) *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.modelName)
	if opts.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemInstruction)},
		}
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		model.SetTemperature(float32(opts.Temperature))
	}
	return model
}

// Generate produces a text completion from a prompt.
func (s *TextService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	model := s.newModel(opts)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", wrapErr("generate", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", domain.NewPermanentProviderError("generate", fmt.Errorf("empty response"))
	}
	return text, nil
}

// GenerateStream produces a completion incrementally.
func (s *TextService) GenerateStream(ctx context.Context, prompt string, opts driven.GenerateOptions) (<-chan driven.StreamChunk, error) {
	model := s.newModel(opts)
	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)
		for {
			resp, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				sendChunk(ctx, out, driven.StreamChunk{Done: true})
				return
			}
			if err != nil {
				sendChunk(ctx, out, driven.StreamChunk{Done: true, Err: wrapErr("generate stream", err)})
				return
			}

			text := responseText(resp)
			if text == "" {
				continue
			}
			select {
			case out <- driven.StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Plan produces a structured visualization outline. The model is asked
// for JSON output; fences and prose around the object are tolerated.
func (s *TextService) Plan(ctx context.Context, prompt string) (*domain.VisualizationPlan, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, wrapErr("plan", err)
	}

	raw := extractJSONObject(responseText(resp))
	if raw == "" {
		return nil, domain.NewPermanentProviderError("plan", fmt.Errorf("no JSON object in response"))
	}

	var plan domain.VisualizationPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, domain.NewPermanentProviderError("plan", fmt.Errorf("decoding plan: %w", err))
	}
	return &plan, nil
}

// ModelName returns the name of the model being used.
func (s *TextService) ModelName() string {
	return s.modelName
}

// Close releases the underlying client.
func (s *TextService) Close() error {
	return s.client.Close()
}

// sendChunk delivers a chunk unless the consumer is gone.
func sendChunk(ctx context.Context, out chan<- driven.StreamChunk, chunk driven.StreamChunk) {
	select {
	case out <- chunk:
	case <-ctx.Done():
	}
}

// responseText concatenates the text parts of a response.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}

// extractJSONObject returns the outermost {...} in s, stripping any
// surrounding fences or prose.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// wrapErr classifies a Gemini API failure as transient or permanent
// from the error text. Quota wording alone is not treated as
// transient: exhausted daily quota does not clear within a retry
// window, and real rate limits still carry 429 or RESOURCE_EXHAUSTED.
func wrapErr(op string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "500"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "deadline exceeded"):
		return domain.NewTransientProviderError(op, err)
	default:
		return domain.NewPermanentProviderError(op, err)
	}
}
