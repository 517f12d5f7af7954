package driving

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// IngestRequest carries one uploaded document into the pipeline.
type IngestRequest struct {
	// DocumentID is optional; a fresh id is assigned when empty.
	DocumentID string

	// Filename is the original upload name.
	Filename string

	// FileType is the declared format of Data.
	FileType domain.FileType

	// Data is the raw file content.
	Data []byte
}

// Ingestor turns uploaded material into indexed, retrievable chunks.
type Ingestor interface {
	// Ingest extracts, chunks, embeds and indexes one document.
	// Re-ingesting identical bytes with identical parameters is
	// idempotent: chunk ids and chunk count are unchanged.
	Ingest(ctx context.Context, req IngestRequest) (*domain.Document, error)

	// Remove deletes a document, its chunks and its vectors.
	// A query issued after Remove returns never observes the document.
	Remove(ctx context.Context, documentID string) error

	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)
}
