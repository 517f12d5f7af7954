package driving

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// Visualizer generates knowledge diagrams from the indexed material
// using the two-stage plan-then-render pipeline.
type Visualizer interface {
	// Visualize retrieves grounding passages for the request prompt,
	// plans a structured outline with the text model, then renders the
	// diagram with the image model. The render stage only runs when
	// planning succeeded.
	Visualize(ctx context.Context, req domain.VisualizationRequest) (*domain.Visualization, error)
}
