package driven

import "context"

// VectorIndex provides semantic similarity search over chunk
// embeddings. Within one collection, writes are linearised relative to
// reads: a query started after DeleteDocument returns never observes
// the deleted vectors.
type VectorIndex interface {
	// Upsert inserts or overwrites the vector for a chunk.
	// Fails with an error wrapping domain.ErrIndex when the vector
	// dimensionality does not match the collection dimension.
	Upsert(ctx context.Context, documentID, chunkID string, embedding []float32, payload VectorPayload) error

	// DeleteDocument removes all vectors belonging to a document.
	// Atomic from the caller's point of view.
	DeleteDocument(ctx context.Context, documentID string) error

	// Query finds the topK nearest neighbours to the query vector,
	// optionally restricted to the given document ids. Results are
	// ranked by descending cosine similarity.
	Query(ctx context.Context, embedding []float32, topK int, filterDocumentIDs []string) ([]VectorHit, error)

	// Count returns the number of vectors in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorPayload is the metadata stored alongside a vector, sufficient
// to present a retrieval hit without a store round-trip.
type VectorPayload struct {
	// DocumentID is the owning document.
	DocumentID string

	// Filename is the owning document's filename.
	Filename string

	// Position is the chunk's ordinal position within the document.
	Position int

	// Text is the chunk content.
	Text string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the cosine similarity (0-1).
	Score float64

	// Payload is the metadata stored with the vector.
	Payload VectorPayload
}
