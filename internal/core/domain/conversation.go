package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is one message in a caller-supplied conversation.
// The core never persists conversation history; the caller passes the
// relevant turns with every request.
type ConversationTurn struct {
	// Role is who authored the turn.
	Role Role

	// Content is the message text.
	Content string

	// Sources lists the passages an assistant turn was grounded on.
	// Empty for user turns.
	Sources []SourceRef
}

// SourceRef points an answer back at the material it was grounded on.
type SourceRef struct {
	// DocumentID identifies the source document.
	DocumentID string

	// DocumentName is the source document's filename.
	DocumentName string

	// ChunkText is a short excerpt of the grounding passage.
	ChunkText string

	// RelevanceScore is the normalised retrieval score in [0, 1].
	RelevanceScore float64
}
