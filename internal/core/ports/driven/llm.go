package driven

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// TextService provides language model text generation.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash and newer)
//   - OpenAI (gpt-4o-mini and newer)
type TextService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces a completion incrementally. The returned
	// channel delivers chunks in order and is closed after the final
	// chunk. Exactly one chunk has Done set; if the stream failed
	// mid-flight that chunk carries Err instead of silently truncating.
	// Cancelling ctx aborts the in-flight provider call.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan StreamChunk, error)

	// Plan produces a structured visualization outline for the given
	// planning prompt. Implementations request structured output from
	// the model rather than parsing free prose.
	Plan(ctx context.Context, prompt string) (*domain.VisualizationPlan, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// SystemInstruction is prepended as the system prompt when set.
	SystemInstruction string

	// MaxTokens is the maximum number of tokens to generate.
	// Zero means the provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// StreamChunk is one increment of a streamed completion.
type StreamChunk struct {
	// Text is the partial output. Empty on the terminal chunk when the
	// stream failed.
	Text string

	// Err is set on the terminal chunk when the provider failed
	// mid-stream. Output already delivered is not retracted.
	Err error

	// Done marks the terminal chunk.
	Done bool
}
