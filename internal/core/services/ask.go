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

// AskService answers questions grounded in the indexed material.
// Retrieval runs first; the answer is generated from the assembled
// prompt. When retrieval finds nothing the question is still answered,
// with the no-grounding instructions and no source attribution.
type AskService struct {
	retriever *Retriever
	text      driven.TextService
	prompts   driven.PromptStore
	gate      *ProviderGate
	assembly  AssemblyConfig
	retry     retryPolicy
}

var _ driving.Asker = (*AskService)(nil)

// NewAskService creates the question answering service.
func NewAskService(
	retriever *Retriever,
	text driven.TextService,
	prompts driven.PromptStore,
	gate *ProviderGate,
	assembly AssemblyConfig,
) *AskService {
	return &AskService{
		retriever: retriever,
		text:      text,
		prompts:   prompts,
		gate:      gate,
		assembly:  assembly,
		retry:     defaultRetryPolicy(),
	}
}

// Ask produces a complete answer in one call.
func (s *AskService) Ask(ctx context.Context, req driving.AskRequest) (*driving.AskResult, error) {
	progress := newRequestProgress()
	prompt, sources, err := s.prepare(ctx, req, progress)
	if err != nil {
		progress.fail()
		return nil, err
	}

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		progress.fail()
		return nil, err
	}
	defer release()

	progress.advance(domain.StateStreaming)
	answer, err := withRetry(ctx, s.retry, "generate answer", func(ctx context.Context) (string, error) {
		return s.text.Generate(ctx, prompt, driven.GenerateOptions{})
	})
	if err != nil {
		progress.fail()
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	progress.advance(domain.StateCompleted)
	return &driving.AskResult{Answer: answer, Sources: sources}, nil
}

// AskStream delivers the answer incrementally. Sources are resolved
// before generation starts; the provider slot is held until the stream
// finishes.
func (s *AskService) AskStream(ctx context.Context, req driving.AskRequest) ([]domain.SourceRef, <-chan driven.StreamChunk, error) {
	progress := newRequestProgress()
	prompt, sources, err := s.prepare(ctx, req, progress)
	if err != nil {
		progress.fail()
		return nil, nil, err
	}

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		progress.fail()
		return nil, nil, err
	}

	progress.advance(domain.StateStreaming)
	// Opening the stream retries like blocking generation does; a
	// failure mid-stream is surfaced to the caller instead.
	stream, err := withRetry(ctx, s.retry, "start answer stream", func(ctx context.Context) (<-chan driven.StreamChunk, error) {
		return s.text.GenerateStream(ctx, prompt, driven.GenerateOptions{})
	})
	if err != nil {
		release()
		progress.fail()
		return nil, nil, fmt.Errorf("start answer stream: %w", err)
	}

	out := make(chan driven.StreamChunk)
	go func() {
		defer close(out)
		defer release()
		for chunk := range stream {
			select {
			case out <- chunk:
			case <-ctx.Done():
				progress.fail()
				return
			}
			if chunk.Done {
				if chunk.Err != nil {
					progress.fail()
				} else {
					progress.advance(domain.StateCompleted)
				}
				return
			}
		}
	}()

	return sources, out, nil
}

// prepare runs retrieval and assembles the generation prompt. The same
// path serves both the blocking and the streaming entry points, so the
// two produce identical grounding for identical inputs.
func (s *AskService) prepare(ctx context.Context, req driving.AskRequest, progress *requestProgress) (string, []domain.SourceRef, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return "", nil, fmt.Errorf("%w: question is required", domain.ErrValidation)
	}

	progress.advance(domain.StateRetrieving)
	passages, err := s.retriever.Retrieve(ctx, question, req.DocumentIDs)
	if err != nil {
		return "", nil, err
	}
	progress.advance(domain.StateAssembling)

	promptName := driven.PromptQASystem
	if len(passages) == 0 {
		logger.Debug("No grounding found, answering without sources")
		promptName = driven.PromptQANoGrounding
	}
	system, err := s.prompts.Load(promptName)
	if err != nil {
		return "", nil, fmt.Errorf("load prompt %s: %w", promptName, err)
	}

	prompt := AssembleContext(system, passages, req.History, question, s.assembly)

	sources := make([]domain.SourceRef, 0, len(passages))
	for _, p := range passages {
		sources = append(sources, domain.SourceRefFor(p))
	}
	return prompt, sources, nil
}
