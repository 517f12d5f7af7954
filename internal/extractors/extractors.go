// Package extractors turns raw uploaded bytes into plain text.
// One extractor per supported format; the Registry dispatches on file
// type. Page and slide boundaries are preserved as "[Page N]" and
// "[Slide N]" markers so downstream chunks can carry their origin.
package extractors

import (
	"context"
	"fmt"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
	"github.com/Arlieeee/StudyBuddy-AI/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.Extractor = (*Registry)(nil)

// formatExtractor handles one file format.
type formatExtractor interface {
	extract(ctx context.Context, data []byte) (string, error)
}

// Registry dispatches extraction to the format-specific extractor.
type Registry struct {
	byType map[domain.FileType]formatExtractor
}

// NewRegistry creates a registry covering all supported formats.
func NewRegistry() *Registry {
	return &Registry{
		byType: map[domain.FileType]formatExtractor{
			domain.FileTypeTXT:  &plaintextExtractor{},
			domain.FileTypeDOCX: &docxExtractor{},
			domain.FileTypePPTX: &pptxExtractor{},
			domain.FileTypePDF:  newPDFExtractor(),
		},
	}
}

// Extract returns the plain text content of data.
func (r *Registry) Extract(ctx context.Context, data []byte, fileType domain.FileType) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", domain.ErrIngestion)
	}

	ex, ok := r.byType[fileType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported file type %q", domain.ErrIngestion, fileType)
	}

	text, err := ex.extract(ctx, data)
	if err != nil {
		return "", err
	}
	return text, nil
}
