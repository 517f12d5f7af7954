package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// FileType identifies a supported study material format.
type FileType string

// Supported file types.
const (
	FileTypePDF  FileType = "pdf"
	FileTypePPTX FileType = "pptx"
	FileTypeDOCX FileType = "docx"
	FileTypeTXT  FileType = "txt"
)

// ParseFileType validates and normalises a file type string.
// A leading dot (".pdf") and mixed case are accepted.
func ParseFileType(s string) (FileType, error) {
	ft := FileType(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	if !ft.IsValid() {
		return "", fmt.Errorf("%w: unsupported file type %q", ErrIngestion, s)
	}
	return ft, nil
}

// IsValid returns true if the file type is recognised.
func (f FileType) IsValid() bool {
	switch f {
	case FileTypePDF, FileTypePPTX, FileTypeDOCX, FileTypeTXT:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f FileType) String() string {
	return string(f)
}

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

// Document lifecycle states.
const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Document represents an ingested piece of study material.
// The raw bytes are not retained; only the extracted, chunked and
// indexed form survives ingestion.
type Document struct {
	// ID is the unique identifier for the document.
	// Assigned by the caller or generated at ingestion.
	ID string

	// Filename is the original upload name, used for source attribution.
	Filename string

	// FileType is the format the content was extracted from.
	FileType FileType

	// Status is the current ingestion state.
	Status DocumentStatus

	// ChunkCount is the number of chunks currently indexed for this
	// document. It always matches the indexed chunk set.
	ChunkCount int

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time
}

// Chunk is a bounded, overlapping slice of a document's extracted text.
// It is the unit of indexing and retrieval. Chunks are immutable once
// created; re-ingestion replaces them wholesale.
type Chunk struct {
	// ID is deterministic: identical document id, position and text
	// always produce the same id. See ChunkID.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Text is the chunk content.
	Text string

	// Position is the ordinal position within the document.
	Position int

	// Page is the page or slide number the chunk starts on, when the
	// extractor provided one. Zero means unknown.
	Page int

	// Embedding is the vector representation for semantic retrieval.
	Embedding []float32
}

// ChunkID derives the deterministic chunk identifier from the parent
// document id, the chunk position and the chunk text. Re-ingesting
// identical bytes with identical chunking parameters therefore yields
// identical ids.
func ChunkID(documentID string, position int, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%s", documentID, position, text)
	return hex.EncodeToString(h.Sum(nil))[:32]
}
