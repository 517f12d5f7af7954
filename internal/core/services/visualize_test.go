package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

func samplePlan() *domain.VisualizationPlan {
	return &domain.VisualizationPlan{
		Title:  "The Krebs Cycle",
		Layout: "radial",
		Nodes: []domain.PlanNode{
			{Label: "Acetyl-CoA", Note: "entry molecule"},
			{Label: "Citrate", Note: "first intermediate"},
			{Label: "ATP", Note: "energy output"},
		},
		Relations: []domain.PlanRelation{
			{From: "Acetyl-CoA", To: "Citrate", Label: "condenses into"},
		},
	}
}

func newVisualizeFixture(text *mockTextService, image *mockImageService) *VisualizeService {
	retriever := NewRetriever(&mockEmbedder{}, groundedIndex(), RetrieverConfig{})
	svc := NewVisualizeService(retriever, text, image, &mockPromptStore{}, NewProviderGate(2, time.Second))
	svc.retry = fastPolicy()
	return svc
}

func TestVisualizeTwoStagePipeline(t *testing.T) {
	text := &mockTextService{plan: samplePlan()}
	image := &mockImageService{result: &driven.RenderResult{
		Image:       []byte("png-bytes"),
		MIMEType:    "image/png",
		Description: "A radial diagram of the Krebs cycle",
	}}
	svc := newVisualizeFixture(text, image)

	viz, err := svc.Visualize(context.Background(), domain.VisualizationRequest{
		Prompt: "the krebs cycle",
		Style:  domain.StyleMindmap,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), viz.Image)
	assert.Equal(t, "image/png", viz.MIMEType)
	assert.Equal(t, "A radial diagram of the Krebs cycle", viz.Description)

	// The render prompt carries the plan, not the raw user prompt.
	require.Len(t, image.prompts, 1)
	assert.Contains(t, image.prompts[0], "The Krebs Cycle")
	assert.Contains(t, image.prompts[0], "Acetyl-CoA")
	assert.Contains(t, image.prompts[0], "condenses into")
	assert.Contains(t, image.prompts[0], "Mind map style")
	assert.Equal(t, []string{"16:9"}, image.aspects)
}

func TestVisualizePlanFailureSkipsRender(t *testing.T) {
	text := &mockTextService{planErr: domain.NewPermanentProviderError("plan", errors.New("refused"))}
	image := &mockImageService{}
	svc := newVisualizeFixture(text, image)

	_, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.Error(t, err)
	assert.Zero(t, image.calls, "render stage never runs after a failed plan")
}

func TestVisualizeEmptyPlanRejected(t *testing.T) {
	text := &mockTextService{plan: &domain.VisualizationPlan{Title: "empty"}}
	image := &mockImageService{}
	svc := newVisualizeFixture(text, image)

	_, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Zero(t, image.calls)
}

func TestVisualizeRetriesTransientPlanFailure(t *testing.T) {
	text := &mockTextService{plan: samplePlan(), failures: 2}
	image := &mockImageService{}
	svc := newVisualizeFixture(text, image)

	viz, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.NoError(t, err)
	assert.NotEmpty(t, viz.Image)
	assert.Equal(t, 3, text.planCalls)
	assert.Equal(t, 1, image.calls)
}

func TestVisualizeValidation(t *testing.T) {
	svc := newVisualizeFixture(&mockTextService{plan: samplePlan()}, &mockImageService{})

	tests := []struct {
		name string
		req  domain.VisualizationRequest
	}{
		{"empty prompt", domain.VisualizationRequest{Style: domain.StyleMindmap}},
		{"unknown style", domain.VisualizationRequest{Prompt: "x", Style: domain.VisualizationStyle("vaporwave")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Visualize(context.Background(), tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestVisualizeDefaultsStyleAndAspect(t *testing.T) {
	text := &mockTextService{plan: samplePlan()}
	image := &mockImageService{}
	svc := newVisualizeFixture(text, image)

	_, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.NoError(t, err)
	require.Len(t, image.prompts, 1)
	assert.Contains(t, image.prompts[0], "educational illustration")
	assert.Equal(t, []string{"16:9"}, image.aspects)
}

func TestVisualizeFallsBackToPlanTitleDescription(t *testing.T) {
	text := &mockTextService{plan: samplePlan()}
	image := &mockImageService{result: &driven.RenderResult{Image: []byte("img"), MIMEType: "image/png"}}
	svc := newVisualizeFixture(text, image)

	viz, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.NoError(t, err)
	assert.Equal(t, "The Krebs Cycle", viz.Description)
}

func TestVisualizeNoImageFromProvider(t *testing.T) {
	text := &mockTextService{plan: samplePlan()}
	image := &mockImageService{result: &driven.RenderResult{MIMEType: "image/png"}}
	svc := newVisualizeFixture(text, image)

	_, err := svc.Visualize(context.Background(), domain.VisualizationRequest{Prompt: "topic"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
}
