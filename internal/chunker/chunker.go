// Package chunker splits extracted document text into bounded,
// overlapping chunks with deterministic identity.
package chunker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// sentenceEnders mark preferred chunk boundaries, tried in order.
var sentenceEnders = []string{"。", ". ", ".\n", "!\n", "?\n", "\n\n"}

// pageMarker matches the "[Page N]" / "[Slide N]" markers emitted by
// the extractors.
var pageMarker = regexp.MustCompile(`\[(?:Page|Slide) (\d+)\]`)

// Chunker splits document content into fixed-size overlapping chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split chunks the extracted text of a document. Identical text and
// parameters always produce identical chunk boundaries and ids, which
// makes re-ingestion idempotent.
// Empty or whitespace-only text fails with domain.ErrIngestion.
func (c *Chunker) Split(documentID, text string) ([]domain.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text to chunk for document %s", domain.ErrIngestion, documentID)
	}

	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []domain.Chunk{c.makeChunk(documentID, 0, strings.TrimSpace(text), text, 0)}, nil
	}

	var chunks []domain.Chunk
	position := 0
	start := 0

	for start < len(runes) {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		} else {
			end = c.adjustToSentence(runes, start, end)
		}

		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			chunks = append(chunks, c.makeChunk(documentID, position, content, text, start))
			position++
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			// Sentence adjustment pulled the window back too far;
			// advance without overlap to guarantee progress.
			next = end
		}
		start = next
	}

	return chunks, nil
}

// adjustToSentence pulls the window end back to the nearest sentence
// boundary, as long as that keeps the chunk above half the window.
func (c *Chunker) adjustToSentence(runes []rune, start, end int) int {
	window := string(runes[start:end])
	half := len([]rune(window)) / 2

	for _, sep := range sentenceEnders {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		runeIdx := len([]rune(window[:idx]))
		if runeIdx > half {
			return start + runeIdx + len([]rune(sep))
		}
	}
	return end
}

// makeChunk builds a chunk with its deterministic id and the page
// number in effect at the chunk's start offset.
func (c *Chunker) makeChunk(documentID string, position int, content, fullText string, startRune int) domain.Chunk {
	return domain.Chunk{
		ID:         domain.ChunkID(documentID, position, content),
		DocumentID: documentID,
		Text:       content,
		Position:   position,
		Page:       pageAt(fullText, startRune),
	}
}

// pageAt returns the last page/slide marker appearing at or before the
// given rune offset, or zero when none precede it.
func pageAt(text string, runeOffset int) int {
	prefix := string([]rune(text)[:runeOffset])
	matches := pageMarker.FindAllStringSubmatch(prefix, -1)
	if len(matches) == 0 {
		// The chunk may start exactly on a marker.
		if m := pageMarker.FindStringSubmatch(string([]rune(text)[runeOffset:])); m != nil && strings.HasPrefix(strings.TrimSpace(string([]rune(text)[runeOffset:])), m[0]) {
			n, _ := strconv.Atoi(m[1])
			return n
		}
		return 0
	}
	n, _ := strconv.Atoi(matches[len(matches)-1][1])
	return n
}
