package cli

import (
	"context"
	"time"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
)

// setupTestServices injects fake services and returns a cleanup
// function restoring the uninitialised state.
func setupTestServices() func() {
	ingestService = &fakeIngestor{}
	askService = &fakeAsker{}
	recommendService = &fakeRecommender{}
	visualizeService = &fakeVisualizer{}
	servicesReady = true

	return func() {
		ingestService = nil
		askService = nil
		recommendService = nil
		visualizeService = nil
		servicesReady = false
	}
}

type fakeIngestor struct {
	removed []string
}

func (f *fakeIngestor) Ingest(_ context.Context, req driving.IngestRequest) (*domain.Document, error) {
	return &domain.Document{
		ID:         "doc-1",
		Filename:   req.Filename,
		FileType:   req.FileType,
		Status:     domain.StatusCompleted,
		ChunkCount: 3,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeIngestor) Remove(_ context.Context, documentID string) error {
	f.removed = append(f.removed, documentID)
	return nil
}

func (f *fakeIngestor) List(_ context.Context) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:         "doc-1",
			Filename:   "biology.pdf",
			FileType:   domain.FileTypePDF,
			Status:     domain.StatusCompleted,
			ChunkCount: 12,
			CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}, nil
}

type fakeAsker struct{}

func (f *fakeAsker) Ask(_ context.Context, _ driving.AskRequest) (*driving.AskResult, error) {
	return &driving.AskResult{
		Answer: "Mitochondria produce ATP.",
		Sources: []domain.SourceRef{
			{DocumentID: "doc-1", DocumentName: "biology.pdf", RelevanceScore: 0.91},
		},
	}, nil
}

func (f *fakeAsker) AskStream(_ context.Context, _ driving.AskRequest) ([]domain.SourceRef, <-chan driven.StreamChunk, error) {
	out := make(chan driven.StreamChunk, 3)
	out <- driven.StreamChunk{Text: "Mitochondria "}
	out <- driven.StreamChunk{Text: "produce ATP."}
	out <- driven.StreamChunk{Done: true}
	close(out)
	sources := []domain.SourceRef{
		{DocumentID: "doc-1", DocumentName: "biology.pdf", RelevanceScore: 0.91},
	}
	return sources, out, nil
}

type fakeRecommender struct{}

func (f *fakeRecommender) Topics(_ context.Context, _ driving.RecommendRequest) ([]domain.RecommendationTopic, error) {
	return []domain.RecommendationTopic{
		{
			Type:        domain.TopicQA,
			Title:       "Cell respiration",
			Description: "How cells turn glucose into energy",
			Prompt:      "Explain cellular respiration step by step",
		},
	}, nil
}

type fakeVisualizer struct{}

func (f *fakeVisualizer) Visualize(_ context.Context, _ domain.VisualizationRequest) (*domain.Visualization, error) {
	return &domain.Visualization{
		Description: "Krebs cycle overview",
		Image:       []byte{0x89, 0x50, 0x4e, 0x47},
		MIMEType:    "image/png",
	}, nil
}
