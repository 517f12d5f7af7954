package domain

// Passage is a retrieved chunk with its relevance to a query.
type Passage struct {
	// ChunkID identifies the retrieved chunk.
	ChunkID string

	// DocumentID identifies the chunk's parent document.
	DocumentID string

	// DocumentName is the parent document's filename.
	DocumentName string

	// Text is the chunk content.
	Text string

	// Position is the chunk's ordinal position within its document.
	Position int

	// Score is the normalised relevance score in [0, 1].
	Score float64
}

// excerptLimit bounds the chunk excerpt carried in a SourceRef.
const excerptLimit = 200

// SourceRefFor builds a source reference from a retrieved passage,
// truncating the excerpt to a presentable length.
func SourceRefFor(p Passage) SourceRef {
	text := p.Text
	if runes := []rune(text); len(runes) > excerptLimit {
		text = string(runes[:excerptLimit]) + "..."
	}
	return SourceRef{
		DocumentID:     p.DocumentID,
		DocumentName:   p.DocumentName,
		ChunkText:      text,
		RelevanceScore: p.Score,
	}
}
