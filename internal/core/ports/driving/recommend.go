package driving

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// RecommendRequest asks for grounded follow-up suggestions.
type RecommendRequest struct {
	// Mode selects chat question or visualization topic suggestions.
	Mode domain.RecommendMode

	// DocumentIDs optionally restricts sampling to specific documents.
	DocumentIDs []string

	// History is the recent conversation, supplied by the caller.
	History []domain.ConversationTurn
}

// Recommender produces grounded follow-up prompts from the indexed
// corpus and the conversation so far.
type Recommender interface {
	// Topics returns a bounded, deduplicated list of typed
	// suggestions. An empty corpus yields an empty list, not an error.
	Topics(ctx context.Context, req RecommendRequest) ([]domain.RecommendationTopic, error)
}
