package driven

import (
	"context"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// Extractor turns raw uploaded bytes into plain text.
// Format-specific parsing lives outside the core; the core only sees
// the extracted text. Page and slide boundaries are preserved as
// "[Page N]" / "[Slide N]" markers in the output.
type Extractor interface {
	// Extract returns the plain text content of data.
	// Fails with an error wrapping domain.ErrIngestion on unsupported
	// or corrupt input.
	Extract(ctx context.Context, data []byte, fileType domain.FileType) (string, error)
}
