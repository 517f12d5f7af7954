package driven

import "context"

// ImageService renders raster images from prompts.
//
// Implementations may include Gemini image models. The render prompt is
// built by the orchestrator from a visualization plan plus
// style-specific instructions; the service itself is plan-agnostic.
type ImageService interface {
	// Render produces image bytes plus a short textual description.
	Render(ctx context.Context, prompt string, aspectRatio string) (*RenderResult, error)

	// ModelName returns the name of the image model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// RenderResult is the output of an image generation call.
type RenderResult struct {
	// Image is the raster payload.
	Image []byte

	// MIMEType is the image media type, e.g. "image/png".
	MIMEType string

	// Description is the model's accompanying text, when present.
	Description string
}
