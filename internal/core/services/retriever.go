package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
	"github.com/Arlieeee/StudyBuddy-AI/internal/logger"
)

// Retrieval defaults.
const (
	// DefaultTopK is how many nearest neighbours to fetch per query.
	DefaultTopK = 5

	// DefaultMinRelevance is the cosine similarity floor below which
	// hits are discarded rather than presented as grounding.
	DefaultMinRelevance = 0.30

	// DefaultPassageBudget bounds the total characters of retrieved
	// passages assembled into one prompt.
	DefaultPassageBudget = 6000

	// scoreEpsilon treats two scores within this distance as
	// duplicates of the same passage for dedup purposes.
	scoreEpsilon = 1e-4
)

// RetrieverConfig tunes the retrieval pipeline.
type RetrieverConfig struct {
	// TopK is the nearest-neighbour fetch size.
	TopK int

	// MinRelevance is the similarity floor; hits below it are dropped.
	MinRelevance float64

	// PassageBudget is the character budget for returned passages.
	PassageBudget int
}

// withDefaults fills unset fields.
func (c RetrieverConfig) withDefaults() RetrieverConfig {
	if c.TopK <= 0 {
		c.TopK = DefaultTopK
	}
	if c.MinRelevance <= 0 {
		c.MinRelevance = DefaultMinRelevance
	}
	if c.PassageBudget <= 0 {
		c.PassageBudget = DefaultPassageBudget
	}
	return c
}

// Retriever turns a free-text query into ranked, deduplicated,
// budget-limited passages from the vector index.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	cfg      RetrieverConfig
}

// NewRetriever creates a retriever over the given embedding service
// and vector index.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, cfg RetrieverConfig) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		cfg:      cfg.withDefaults(),
	}
}

// Retrieve returns the passages most relevant to query, optionally
// scoped to the given document ids. An empty corpus or a query no
// passage clears the relevance floor for yields an empty slice and a
// nil error; that is a valid state, not a failure.
func (r *Retriever) Retrieve(ctx context.Context, query string, documentIDs []string) ([]domain.Passage, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, scope: %v", query, documentIDs)

	count, err := r.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	if count == 0 {
		logger.Debug("Empty corpus, returning no passages")
		return nil, nil
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	hits, err := r.index.Query(ctx, embedding, r.cfg.TopK, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	logger.Debug("Raw hits: %d", len(hits))

	passages := r.selectPassages(hits)
	logger.Info("Retrieved %d passages", len(passages))
	return passages, nil
}

// selectPassages applies the floor, dedup, ordering and budget rules.
func (r *Retriever) selectPassages(hits []driven.VectorHit) []domain.Passage {
	// Drop hits below the relevance floor.
	kept := hits[:0:0]
	for _, h := range hits {
		if h.Score >= r.cfg.MinRelevance {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	// Descending score; ties break by ascending chunk position for
	// determinism.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Payload.Position < kept[j].Payload.Position
	})

	var selected []domain.Passage
	budget := r.cfg.PassageBudget
	seen := make(map[string]bool)

	for _, h := range kept {
		if seen[h.ChunkID] {
			continue
		}
		if r.isNearDuplicate(h, selected) {
			logger.Debug("Dropping near-duplicate chunk %s", h.ChunkID)
			continue
		}

		size := len(h.Payload.Text)
		if size > budget {
			logger.Debug("Budget exhausted at chunk %s", h.ChunkID)
			break
		}

		seen[h.ChunkID] = true
		selected = append(selected, domain.Passage{
			ChunkID:      h.ChunkID,
			DocumentID:   h.Payload.DocumentID,
			DocumentName: h.Payload.Filename,
			Text:         h.Payload.Text,
			Position:     h.Payload.Position,
			Score:        clampScore(h.Score),
		})
		budget -= size
		if budget <= 0 {
			break
		}
	}

	return selected
}

// isNearDuplicate reports whether the hit duplicates an already
// selected passage: the same document at an adjacent or overlapping
// position, or a score within epsilon of a selected passage from the
// same document.
func (r *Retriever) isNearDuplicate(h driven.VectorHit, selected []domain.Passage) bool {
	for _, p := range selected {
		if p.DocumentID != h.Payload.DocumentID {
			continue
		}
		if abs(p.Position-h.Payload.Position) <= 1 {
			return true
		}
		if math.Abs(p.Score-h.Score) < scoreEpsilon {
			return true
		}
	}
	return false
}

// clampScore normalises a similarity into [0, 1]. Scores never exceed
// 100% at presentation.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
