package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	index, err := NewMemoryIndex(3)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, index.Close())
	})
	return index
}

func upsert(t *testing.T, index *Index, docID, chunkID string, vec []float32, position int, text string) {
	t.Helper()
	err := index.Upsert(context.Background(), docID, chunkID, vec, driven.VectorPayload{
		DocumentID: docID,
		Filename:   docID + ".pdf",
		Position:   position,
		Text:       text,
	})
	require.NoError(t, err)
}

func TestUpsertAndQuery(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "about cells")
	upsert(t, index, "doc1", "c2", []float32{0, 1, 0}, 1, "about atoms")
	upsert(t, index, "doc2", "c3", []float32{0.9, 0.1, 0}, 0, "more about cells")

	hits, err := index.Query(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "c1", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.Equal(t, "c3", hits[1].ChunkID)
	assert.Equal(t, "doc2", hits[1].Payload.DocumentID)
	assert.Equal(t, "doc2.pdf", hits[1].Payload.Filename)
	assert.Equal(t, "more about cells", hits[1].Payload.Text)
}

func TestQueryEmptyIndex(t *testing.T) {
	index := newTestIndex(t)

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestQueryTopKLargerThanCollection(t *testing.T) {
	index := newTestIndex(t)
	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "only vector")

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestQuerySingleDocumentScope(t *testing.T) {
	index := newTestIndex(t)
	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "doc1 text")
	upsert(t, index, "doc2", "c2", []float32{1, 0, 0}, 0, "doc2 text")

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 2, []string{"doc2"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c2", hits[0].ChunkID)
}

func TestQueryMultiDocumentScope(t *testing.T) {
	index := newTestIndex(t)
	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "doc1 text")
	upsert(t, index, "doc2", "c2", []float32{0.9, 0.1, 0}, 0, "doc2 text")
	upsert(t, index, "doc3", "c3", []float32{0.95, 0.05, 0}, 0, "doc3 text")

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 3, []string{"doc1", "doc3"})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.NotEqual(t, "doc2", h.Payload.DocumentID)
	}
}

func TestUpsertOverwrites(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "old text")
	upsert(t, index, "doc1", "c1", []float32{0, 1, 0}, 0, "new text")

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := index.Query(ctx, []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new text", hits[0].Payload.Text)
}

func TestDeleteDocument(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "keep")
	upsert(t, index, "doc2", "c2", []float32{0, 1, 0}, 0, "remove")
	upsert(t, index, "doc2", "c3", []float32{0, 0, 1}, 1, "remove too")

	require.NoError(t, index.DeleteDocument(ctx, "doc2"))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := index.Query(ctx, []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	for _, h := range hits {
		assert.NotEqual(t, "doc2", h.Payload.DocumentID, "deleted vectors are never observed")
	}
}

func TestDeleteDocumentEmptyIndex(t *testing.T) {
	index := newTestIndex(t)
	assert.NoError(t, index.DeleteDocument(context.Background(), "doc1"))
}

func TestDimensionValidation(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	err := index.Upsert(ctx, "doc1", "c1", []float32{1, 0}, driven.VectorPayload{DocumentID: "doc1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)

	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "ok")
	_, err = index.Query(ctx, []float32{1, 0, 0, 0}, 1, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndex)
}

func TestPersistentIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	index, err := NewPersistentIndex(dir, 3)
	require.NoError(t, err)
	upsert(t, index, "doc1", "c1", []float32{1, 0, 0}, 0, "durable")
	require.NoError(t, index.Close())

	reopened, err := NewPersistentIndex(dir, 3)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := reopened.Query(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "durable", hits[0].Payload.Text)
}
