package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// defaultAspectRatio is used when the request leaves it unset.
const defaultAspectRatio = "16:9"

// VisualizeService runs the two-stage diagram pipeline: the text model
// plans a structured outline from retrieved material, then the image
// model renders it. The render stage never runs when planning failed,
// so a provider outage costs one call, not two.
type VisualizeService struct {
	retriever *Retriever
	text      driven.TextService
	image     driven.ImageService
	prompts   driven.PromptStore
	gate      *ProviderGate
	retry     retryPolicy
}

var _ driving.Visualizer = (*VisualizeService)(nil)

// NewVisualizeService creates the visualization pipeline service.
func NewVisualizeService(
	retriever *Retriever,
	text driven.TextService,
	image driven.ImageService,
	prompts driven.PromptStore,
	gate *ProviderGate,
) *VisualizeService {
	return &VisualizeService{
		retriever: retriever,
		text:      text,
		image:     image,
		prompts:   prompts,
		gate:      gate,
		retry:     defaultRetryPolicy(),
	}
}

// Visualize retrieves grounding, plans the outline, then renders it.
func (s *VisualizeService) Visualize(ctx context.Context, req domain.VisualizationRequest) (*domain.Visualization, error) {
	topic := strings.TrimSpace(req.Prompt)
	if topic == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	style := req.Style
	if style == "" {
		style = domain.StyleEducational
	}
	if !style.IsValid() {
		return nil, fmt.Errorf("%w: unknown style %q", domain.ErrValidation, req.Style)
	}

	progress := newRequestProgress()
	progress.advance(domain.StateRetrieving)
	passages, err := s.retriever.Retrieve(ctx, topic, req.DocumentIDs)
	if err != nil {
		progress.fail()
		return nil, err
	}

	plan, err := s.plan(ctx, topic, passages, req.ConversationHistory, progress)
	if err != nil {
		progress.fail()
		return nil, err
	}
	logger.Info("Planned %q: %d nodes, %d relations", plan.Title, len(plan.Nodes), len(plan.Relations))

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}
	progress.advance(domain.StateRendering)
	result, err := s.render(ctx, plan, style, aspect)
	if err != nil {
		progress.fail()
		return nil, err
	}
	progress.advance(domain.StateCompleted)

	description := result.Description
	if description == "" {
		description = plan.Title
	}
	return &domain.Visualization{
		Description: description,
		Image:       result.Image,
		MIMEType:    result.MIMEType,
	}, nil
}

// plan asks the text model for the structured outline.
func (s *VisualizeService) plan(ctx context.Context, topic string, passages []domain.Passage, history string, progress *requestProgress) (*domain.VisualizationPlan, error) {
	progress.advance(domain.StateAssembling)
	template, err := s.prompts.Load(driven.PromptVisualizationPlan)
	if err != nil {
		return nil, fmt.Errorf("load prompt %s: %w", driven.PromptVisualizationPlan, err)
	}

	var material strings.Builder
	for i, p := range passages {
		if i > 0 {
			material.WriteString("\n---\n")
		}
		fmt.Fprintf(&material, "[Source %d: %s]\n%s", i+1, p.DocumentName, p.Text)
	}
	if material.Len() == 0 {
		material.WriteString("(no indexed material matched; plan from general knowledge of the topic)")
	}
	if history == "" {
		history = "(none)"
	}
	prompt := fmt.Sprintf(template, topic, material.String(), history)

	progress.advance(domain.StatePlanning)
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := withRetry(ctx, s.retry, "plan visualization", func(ctx context.Context) (*domain.VisualizationPlan, error) {
		return s.text.Plan(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("plan visualization: %w", err)
	}
	if len(plan.Nodes) == 0 {
		return nil, fmt.Errorf("%w: plan contains no nodes", domain.ErrProvider)
	}
	return plan, nil
}

// render turns the plan into the image model prompt and executes it.
func (s *VisualizeService) render(ctx context.Context, plan *domain.VisualizationPlan, style domain.VisualizationStyle, aspectRatio string) (*driven.RenderResult, error) {
	prompt := renderPromptFromPlan(plan, style)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := withRetry(ctx, s.retry, "render visualization", func(ctx context.Context) (*driven.RenderResult, error) {
		return s.image.Render(ctx, prompt, aspectRatio)
	})
	if err != nil {
		return nil, fmt.Errorf("render visualization: %w", err)
	}
	if len(result.Image) == 0 {
		return nil, fmt.Errorf("%w: image model returned no image", domain.ErrProvider)
	}
	return result, nil
}

// renderPromptFromPlan flattens the structured plan into the render
// instruction for the image model.
func renderPromptFromPlan(plan *domain.VisualizationPlan, style domain.VisualizationStyle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a clean, legible knowledge diagram titled %q.\n", plan.Title)
	b.WriteString(style.RenderInstructions())
	b.WriteString("\n")
	if plan.Layout != "" {
		fmt.Fprintf(&b, "Layout: %s.\n", plan.Layout)
	}

	b.WriteString("\nConcepts:\n")
	for _, n := range plan.Nodes {
		if n.Note != "" {
			fmt.Fprintf(&b, "- %s: %s\n", n.Label, n.Note)
		} else {
			fmt.Fprintf(&b, "- %s\n", n.Label)
		}
	}

	if len(plan.Relations) > 0 {
		b.WriteString("\nRelationships:\n")
		for _, rel := range plan.Relations {
			if rel.Label != "" {
				fmt.Fprintf(&b, "- %s -> %s (%s)\n", rel.From, rel.To, rel.Label)
			} else {
				fmt.Fprintf(&b, "- %s -> %s\n", rel.From, rel.To)
			}
		}
	}

	b.WriteString("\nAll text must be spelled correctly and large enough to read. No decorative clutter.")
	return b.String()
}
