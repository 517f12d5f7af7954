// Package chromem provides the vector index implementation backed by
// chromem-go, an embedded vector database with optional on-disk
// persistence. Cosine similarity over normalised vectors, no external
// server.
package chromem

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// collectionName is the single collection all chunks live in.
const collectionName = "chunks"

// overFetchFactor widens the raw query when results must be
// post-filtered to a multi-document scope; chromem filters support a
// single equality only.
const overFetchFactor = 4

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a chromem-go backed vector index. A RWMutex linearises
// writes against reads so a query started after a delete never
// observes the deleted vectors.
type Index struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	dimensions int
}

// NewPersistentIndex creates an index persisted under dataDir.
func NewPersistentIndex(dataDir string, dimensions int) (*Index, error) {
	db, err := chromem.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("opening vector db: %w", err)
	}
	return newIndex(db, dimensions)
}

// NewMemoryIndex creates a volatile in-memory index.
func NewMemoryIndex(dimensions int) (*Index, error) {
	return newIndex(chromem.NewDB(), dimensions)
}

func newIndex(db *chromem.DB, dimensions int) (*Index, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", domain.ErrIndex, dimensions)
	}

	// The embedding func is never used: all vectors are supplied by
	// the caller. chromem requires one, so install a guard that fails
	// loudly if it is ever reached.
	embed := func(_ context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("vector index does not embed; got raw text %q", text)
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("opening collection: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		dimensions: dimensions,
	}, nil
}

// Dimensions returns the fixed vector dimensionality.
func (i *Index) Dimensions() int {
	return i.dimensions
}

// Upsert inserts or overwrites the vector for a chunk.
func (i *Index) Upsert(ctx context.Context, documentID, chunkID string, embedding []float32, payload driven.VectorPayload) error {
	if len(embedding) != i.dimensions {
		return fmt.Errorf("%w: vector has %d dimensions, collection expects %d",
			domain.ErrIndex, len(embedding), i.dimensions)
	}

	metadata := map[string]string{
		"document_id": documentID,
		"filename":    payload.Filename,
		"position":    strconv.Itoa(payload.Position),
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	err := i.collection.Add(ctx,
		[]string{chunkID},
		[][]float32{embedding},
		[]map[string]string{metadata},
		[]string{payload.Text},
	)
	if err != nil {
		return fmt.Errorf("%w: adding vector: %v", domain.ErrIndex, err)
	}
	return nil
}

// DeleteDocument removes all vectors belonging to a document.
func (i *Index) DeleteDocument(ctx context.Context, documentID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.collection.Count() == 0 {
		return nil
	}
	err := i.collection.Delete(ctx, map[string]string{"document_id": documentID}, nil)
	if err != nil {
		return fmt.Errorf("%w: deleting vectors: %v", domain.ErrIndex, err)
	}
	return nil
}

// Query finds the topK nearest neighbours, optionally scoped to the
// given document ids.
func (i *Index) Query(ctx context.Context, embedding []float32, topK int, filterDocumentIDs []string) ([]driven.VectorHit, error) {
	if len(embedding) != i.dimensions {
		return nil, fmt.Errorf("%w: query vector has %d dimensions, collection expects %d",
			domain.ErrIndex, len(embedding), i.dimensions)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: topK must be positive, got %d", domain.ErrIndex, topK)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	count := i.collection.Count()
	if count == 0 {
		return nil, nil
	}

	// chromem's where clause is a conjunction of equalities, so a
	// single-document scope filters natively and a wider scope
	// over-fetches and filters here.
	var where map[string]string
	fetch := topK
	switch {
	case len(filterDocumentIDs) == 1:
		where = map[string]string{"document_id": filterDocumentIDs[0]}
	case len(filterDocumentIDs) > 1:
		fetch = topK * overFetchFactor
	}
	if fetch > count {
		fetch = count
	}

	results, err := i.collection.QueryEmbedding(ctx, embedding, fetch, where, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: querying vectors: %v", domain.ErrIndex, err)
	}

	scope := make(map[string]bool, len(filterDocumentIDs))
	for _, id := range filterDocumentIDs {
		scope[id] = true
	}

	hits := make([]driven.VectorHit, 0, len(results))
	for _, res := range results {
		docID := res.Metadata["document_id"]
		if len(scope) > 0 && !scope[docID] {
			continue
		}
		position, _ := strconv.Atoi(res.Metadata["position"])
		hits = append(hits, driven.VectorHit{
			ChunkID: res.ID,
			Score:   float64(res.Similarity),
			Payload: driven.VectorPayload{
				DocumentID: docID,
				Filename:   res.Metadata["filename"],
				Position:   position,
				Text:       res.Content,
			},
		})
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

// Count returns the number of vectors in the collection.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.collection.Count(), nil
}

// Close releases resources. chromem persists on every write, so there
// is nothing to flush.
func (i *Index) Close() error {
	return nil
}
