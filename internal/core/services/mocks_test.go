package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService. It hashes token
// sets into small deterministic vectors so texts sharing words get
// similar embeddings, which gives retrieval tests real rankings.
type mockEmbedder struct {
	dims     int
	embedErr error
	calls    int
}

func (m *mockEmbedder) dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 8
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return tokenVector(text, m.dimensions()), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = tokenVector(t, m.dimensions())
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int   { return m.dimensions() }
func (m *mockEmbedder) ModelName() string { return "mock-embed" }
func (m *mockEmbedder) Close() error      { return nil }

// tokenVector sums per-token hash vectors and normalises.
func tokenVector(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		sum := sha256.Sum256([]byte(tok))
		for i := 0; i < dims; i++ {
			bits := binary.LittleEndian.Uint32(sum[(i*4)%28:])
			vec[i] += float32(bits%1000)/500 - 1
		}
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

// mockVectorIndex implements driven.VectorIndex with brute-force
// cosine search over an in-memory map.
type mockVectorIndex struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	payloads  map[string]driven.VectorPayload
	upsertErr error
	queryErr  error
	deleteErr error
}

func newMockVectorIndex() *mockVectorIndex {
	return &mockVectorIndex{
		vectors:  make(map[string][]float32),
		payloads: make(map[string]driven.VectorPayload),
	}
}

func (m *mockVectorIndex) Upsert(_ context.Context, _, chunkID string, embedding []float32, payload driven.VectorPayload) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[chunkID] = embedding
	m.payloads[chunkID] = payload
	return nil
}

func (m *mockVectorIndex) DeleteDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.payloads {
		if p.DocumentID == documentID {
			delete(m.vectors, id)
			delete(m.payloads, id)
		}
	}
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, embedding []float32, topK int, filterDocumentIDs []string) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	scope := make(map[string]bool, len(filterDocumentIDs))
	for _, id := range filterDocumentIDs {
		scope[id] = true
	}

	var hits []driven.VectorHit
	for id, vec := range m.vectors {
		p := m.payloads[id]
		if len(scope) > 0 && !scope[p.DocumentID] {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID: id,
			Score:   cosine(embedding, vec),
			Payload: p,
		})
	}
	for i := 0; i < len(hits); i++ {
		for j := i + 1; j < len(hits); j++ {
			if hits[j].Score > hits[i].Score {
				hits[i], hits[j] = hits[j], hits[i]
			}
		}
	}
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vectors), nil
}

func (m *mockVectorIndex) Close() error { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// staticVectorIndex returns a fixed hit list regardless of the query.
type staticVectorIndex struct {
	hits     []driven.VectorHit
	count    int
	queryErr error
}

func (s *staticVectorIndex) Upsert(context.Context, string, string, []float32, driven.VectorPayload) error {
	return nil
}
func (s *staticVectorIndex) DeleteDocument(context.Context, string) error { return nil }
func (s *staticVectorIndex) Query(_ context.Context, _ []float32, topK int, _ []string) ([]driven.VectorHit, error) {
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	if topK > len(s.hits) {
		return s.hits, nil
	}
	return s.hits[:topK], nil
}
func (s *staticVectorIndex) Count(context.Context) (int, error) {
	if s.count > 0 {
		return s.count, nil
	}
	return len(s.hits), nil
}
func (s *staticVectorIndex) Close() error { return nil }

// mockTextService implements driven.TextService with scripted replies.
type mockTextService struct {
	mu                 sync.Mutex
	reply              string
	replies            []string // consumed before falling back to reply
	generateErr        error
	failures           int // errors to return before succeeding
	streamText         []string
	streamErr          error
	streamOpenFailures int // stream opens to fail before succeeding
	plan               *domain.VisualizationPlan
	planErr            error
	prompts            []string
	planCalls          int
}

func (m *mockTextService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.failures > 0 {
		m.failures--
		return "", domain.NewTransientProviderError("generate", fmt.Errorf("temporary outage"))
	}
	if m.generateErr != nil {
		return "", m.generateErr
	}
	if len(m.replies) > 0 {
		r := m.replies[0]
		m.replies = m.replies[1:]
		return r, nil
	}
	return m.reply, nil
}

func (m *mockTextService) GenerateStream(ctx context.Context, prompt string, _ driven.GenerateOptions) (<-chan driven.StreamChunk, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	if m.streamOpenFailures > 0 {
		m.streamOpenFailures--
		m.mu.Unlock()
		return nil, domain.NewTransientProviderError("stream", fmt.Errorf("temporary outage"))
	}
	chunks := m.streamText
	streamErr := m.streamErr
	m.mu.Unlock()

	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)
		for _, text := range chunks {
			select {
			case out <- driven.StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case out <- driven.StreamChunk{Done: true, Err: streamErr}:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

func (m *mockTextService) Plan(_ context.Context, prompt string) (*domain.VisualizationPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.planCalls++
	if m.failures > 0 {
		m.failures--
		return nil, domain.NewTransientProviderError("plan", fmt.Errorf("temporary outage"))
	}
	if m.planErr != nil {
		return nil, m.planErr
	}
	return m.plan, nil
}

func (m *mockTextService) ModelName() string { return "mock-text" }
func (m *mockTextService) Close() error      { return nil }

// mockImageService implements driven.ImageService.
type mockImageService struct {
	mu        sync.Mutex
	result    *driven.RenderResult
	renderErr error
	calls     int
	prompts   []string
	aspects   []string
}

func (m *mockImageService) Render(_ context.Context, prompt, aspectRatio string) (*driven.RenderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.aspects = append(m.aspects, aspectRatio)
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &driven.RenderResult{Image: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"}, nil
}

func (m *mockImageService) ModelName() string { return "mock-image" }
func (m *mockImageService) Close() error      { return nil }

// mockPromptStore implements driven.PromptStore over a map with
// pass-through defaults.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.prompts != nil {
		if p, ok := m.prompts[name]; ok {
			return p, nil
		}
	}
	switch name {
	case driven.PromptQASystem:
		return "Answer using the study material.", nil
	case driven.PromptQANoGrounding:
		return "No study material matched. Answer from general knowledge and say so.", nil
	case driven.PromptVisualizationPlan:
		return "Plan a diagram about %s.\nMaterial:\n%s\nHistory:\n%s", nil
	case driven.PromptRecommendVisualization, driven.PromptRecommendChat:
		return "Suggest topics.\nSamples:\n%s\nRecent questions:\n%s", nil
	default:
		return "", fmt.Errorf("unknown prompt %s", name)
	}
}

func (m *mockPromptStore) Reload() {}

// mockExtractor implements driven.Extractor by returning the raw bytes
// as text.
type mockExtractor struct {
	text       string
	extractErr error
}

func (m *mockExtractor) Extract(_ context.Context, data []byte, _ domain.FileType) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(data), nil
}
