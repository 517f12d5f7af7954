package driving

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// AskRequest is a grounded question against the indexed material.
type AskRequest struct {
	// Question is the user's question.
	Question string

	// DocumentIDs optionally scopes retrieval to specific documents.
	DocumentIDs []string

	// History is the recent conversation, supplied by the caller.
	// The core never persists it.
	History []domain.ConversationTurn
}

// AskResult is the completed answer with its grounding.
type AskResult struct {
	// Answer is the generated text.
	Answer string

	// Sources lists the passages the answer was grounded on. Empty
	// when no grounding was found.
	Sources []domain.SourceRef
}

// Asker answers questions grounded in the indexed material.
type Asker interface {
	// Ask produces a complete answer in one call.
	Ask(ctx context.Context, req AskRequest) (*AskResult, error)

	// AskStream delivers the answer incrementally. Sources are
	// resolved before generation starts and returned immediately;
	// the channel then yields ordered chunks and closes after the
	// terminal chunk. Cancelling ctx aborts the in-flight provider
	// call; output already delivered is not retracted.
	AskStream(ctx context.Context, req AskRequest) ([]domain.SourceRef, <-chan driven.StreamChunk, error)
}
