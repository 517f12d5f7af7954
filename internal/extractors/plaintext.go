package extractors

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// plaintextExtractor handles .txt uploads.
type plaintextExtractor struct{}

func (e *plaintextExtractor) extract(_ context.Context, data []byte) (string, error) {
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		// Fall back to a latin-1 interpretation; every byte maps to a
		// code point, so this never fails.
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		text = string(runes)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text file is empty", domain.ErrIngestion)
	}
	return text, nil
}
