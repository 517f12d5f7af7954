// Package openai implements text generation backed by the OpenAI API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// DefaultModel is the text model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds the settings needed to construct a TextService.
type Config struct {
	APIKey string
	Model  string
}

// TextService generates text through the OpenAI API.
type TextService struct {
	client    openai.Client
	modelName string
}

var _ driven.TextService = (*TextService)(nil)

// NewTextService creates an OpenAI-backed text service.
func NewTextService(cfg Config) (*TextService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key is required", domain.ErrValidation)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &TextService{
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		modelName: model,
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *TextService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, s.completionParams(prompt, opts))
	if err != nil {
		return "", wrapErr("generate", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.NewPermanentProviderError("generate", fmt.Errorf("model returned no text"))
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStream produces a completion incrementally.
func (s *TextService) GenerateStream(ctx context.Context, prompt string, opts driven.GenerateOptions) (<-chan driven.StreamChunk, error) {
	stream := s.client.Chat.Completions.NewStreaming(ctx, s.completionParams(prompt, opts))

	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !sendChunk(ctx, out, driven.StreamChunk{Text: delta}) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			sendChunk(ctx, out, driven.StreamChunk{Err: wrapErr("stream", err), Done: true})
			return
		}
		sendChunk(ctx, out, driven.StreamChunk{Done: true})
	}()
	return out, nil
}

// Plan produces a structured visualization outline using the
// structured-output API so the reply is guaranteed to be valid JSON
// for the plan schema.
func (s *TextService) Plan(ctx context.Context, prompt string) (*domain.VisualizationPlan, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "visualization_plan",
			Schema:      planSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Outline of an educational diagram"),
			Type:        "json_schema",
		},
	}
	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: s.modelName,
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(prompt)},
		Text:  responses.ResponseTextConfigParam{Format: format},
	})
	if err != nil {
		return nil, wrapErr("plan", err)
	}

	raw := resp.OutputText()
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewPermanentProviderError("plan", fmt.Errorf("model returned no plan"))
	}
	var plan domain.VisualizationPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, domain.NewPermanentProviderError("plan", fmt.Errorf("decode plan: %w", err))
	}
	return &plan, nil
}

// ModelName returns the name of the model being used.
func (s *TextService) ModelName() string {
	return s.modelName
}

// Close releases resources. The OpenAI client holds no connection
// state that needs explicit teardown.
func (s *TextService) Close() error {
	return nil
}

var planSchema = generateSchema[domain.VisualizationPlan]()

func (s *TextService) completionParams(prompt string, opts driven.GenerateOptions) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if opts.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    s.modelName,
		Messages: messages,
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	return params
}

func sendChunk(ctx context.Context, out chan<- driven.StreamChunk, chunk driven.StreamChunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	// The API reports both rate limiting and exhausted quota as 429;
	// the error code tells them apart. Exhausted quota does not clear
	// on its own, so retrying it is pointless.
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case "insufficient_quota":
			return domain.NewPermanentProviderError(op, err)
		case "rate_limit_exceeded":
			return domain.NewTransientProviderError(op, err)
		}
	}
	if isRateLimitError(err) || isServerError(err) {
		return domain.NewTransientProviderError(op, err)
	}
	return domain.NewPermanentProviderError(op, err)
}

func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit")
}

func isServerError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection reset")
}
