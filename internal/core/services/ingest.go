package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Arlieeee/StudyBuddy-AI/internal/chunker"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driving"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// embedBatchSize bounds how many chunk texts go to the embedding
// provider in one call.
const embedBatchSize = 32

// IngestService runs the ingestion pipeline: extract, chunk, embed,
// index. It owns document lifecycle status transitions.
type IngestService struct {
	extractor driven.Extractor
	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	store     driven.DocumentStore
	retry     retryPolicy
}

var _ driving.Ingestor = (*IngestService)(nil)

// NewIngestService creates the ingestion pipeline service.
func NewIngestService(
	extractor driven.Extractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	store driven.DocumentStore,
) *IngestService {
	return &IngestService{
		extractor: extractor,
		chunker:   ch,
		embedder:  embedder,
		index:     index,
		store:     store,
		retry:     defaultRetryPolicy(),
	}
}

// Ingest extracts, chunks, embeds and indexes one document.
// Failures after the document record exists mark it failed rather than
// leaving it half-indexed with a completed status.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrValidation)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrValidation)
	}
	if !req.FileType.IsValid() {
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrIngestion, req.FileType)
	}

	id := req.DocumentID
	if id == "" {
		id = uuid.New().String()
	}

	logger.Section("Ingestion")
	logger.Info("Ingesting %s (%s, %d bytes)", req.Filename, req.FileType, len(req.Data))

	doc := &domain.Document{
		ID:        id,
		Filename:  req.Filename,
		FileType:  req.FileType,
		Status:    domain.StatusProcessing,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	chunks, err := s.buildChunks(ctx, id, req)
	if err != nil {
		s.markFailed(ctx, doc)
		return nil, err
	}

	if err := s.indexChunks(ctx, doc, chunks); err != nil {
		s.markFailed(ctx, doc)
		return nil, err
	}

	doc.Status = domain.StatusCompleted
	doc.ChunkCount = len(chunks)
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Ingested %s: %d chunks", req.Filename, len(chunks))
	return doc, nil
}

// buildChunks extracts the text and splits it.
func (s *IngestService) buildChunks(ctx context.Context, documentID string, req driving.IngestRequest) ([]domain.Chunk, error) {
	text, err := s.extractor.Extract(ctx, req.Data, req.FileType)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", req.Filename, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no extractable text in %s", domain.ErrIngestion, req.Filename)
	}
	logger.Debug("Extracted %d characters", len(text))

	chunks, err := s.chunker.Split(documentID, text)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", req.Filename, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: chunking produced no chunks for %s", domain.ErrIngestion, req.Filename)
	}
	logger.Debug("Split into %d chunks", len(chunks))
	return chunks, nil
}

// indexChunks embeds every chunk, writes the vectors, then persists
// the chunk metadata. Embedding calls retry on transient provider
// failures.
func (s *IngestService) indexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		embeddings, err := withRetry(ctx, s.retry, "embed batch", func(ctx context.Context) ([][]float32, error) {
			return s.embedder.EmbedBatch(ctx, texts)
		})
		if err != nil {
			return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("%w: embedding count %d does not match batch size %d",
				domain.ErrProvider, len(embeddings), len(batch))
		}

		for i := range batch {
			chunks[start+i].Embedding = embeddings[i]
		}
	}

	// Re-ingestion replaces the previous vector set wholesale so stale
	// chunks never linger in the index.
	if err := s.index.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("clear previous vectors: %w", err)
	}
	for _, c := range chunks {
		payload := driven.VectorPayload{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Position:   c.Position,
			Text:       c.Text,
		}
		if err := s.index.Upsert(ctx, doc.ID, c.ID, c.Embedding, payload); err != nil {
			return fmt.Errorf("index chunk %d: %w", c.Position, err)
		}
	}

	if err := s.store.SaveChunks(ctx, doc.ID, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	return nil
}

// markFailed records a failed ingestion. Best effort; the original
// error is what the caller sees.
func (s *IngestService) markFailed(ctx context.Context, doc *domain.Document) {
	doc.Status = domain.StatusFailed
	doc.ChunkCount = 0
	if err := s.store.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to mark document %s as failed: %v", doc.ID, err)
	}
	if err := s.index.DeleteDocument(ctx, doc.ID); err != nil {
		logger.Warn("Failed to clear vectors for document %s: %v", doc.ID, err)
	}
}

// Remove deletes a document, its chunks and its vectors. Vectors go
// first so a query racing the removal never surfaces passages for a
// document that no longer lists.
func (s *IngestService) Remove(ctx context.Context, documentID string) error {
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.index.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	logger.Info("Removed document %s", documentID)
	return nil
}

// List returns all ingested documents.
func (s *IngestService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.ListDocuments(ctx)
}
