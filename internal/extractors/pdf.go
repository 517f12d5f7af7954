package extractors

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// CommandRunner executes an external command and returns its stdout.
// It exists as a seam so tests can run without poppler installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs real commands.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// pdfExtractor handles PDF files by shelling out to pdftotext from
// poppler-utils. Pure-Go PDF text extraction is unreliable for the
// scanned and mixed-layout material students upload.
type pdfExtractor struct {
	runner CommandRunner
}

func newPDFExtractor() *pdfExtractor {
	return &pdfExtractor{runner: execRunner{}}
}

func (e *pdfExtractor) extract(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "studybuddy-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: cannot stage pdf: %v", domain.ErrIngestion, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: cannot stage pdf: %v", domain.ErrIngestion, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: cannot stage pdf: %v", domain.ErrIngestion, err)
	}

	// -layout keeps columns readable; page breaks arrive as form feeds.
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", tmpPath, "-")
	if err != nil {
		if _, lookErr := exec.LookPath("pdftotext"); lookErr != nil {
			return "", fmt.Errorf("%w: pdftotext not found. %s", domain.ErrIngestion, InstallInstructions())
		}
		return "", fmt.Errorf("%w: pdftotext failed: %v", domain.ErrIngestion, err)
	}

	text := markPages(string(out))
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: pdf contains no extractable text", domain.ErrIngestion)
	}
	return text, nil
}

// markPages converts pdftotext form-feed page breaks into the "[Page N]"
// markers the chunker understands. Empty pages are skipped.
func markPages(raw string) string {
	pages := strings.Split(raw, "\f")
	var parts []string
	for i, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("[Page %d]\n%s", i+1, strings.TrimSpace(page)))
	}
	return strings.Join(parts, "\n\n")
}

// InstallInstructions tells the user how to get pdftotext.
func InstallInstructions() string {
	switch {
	case fileExists("/usr/bin/apt") || fileExists("/usr/bin/apt-get"):
		return "Install poppler-utils: sudo apt install poppler-utils"
	case fileExists("/opt/homebrew/bin/brew") || fileExists("/usr/local/bin/brew"):
		return "Install poppler: brew install poppler"
	default:
		return "Install pdftotext (Debian/Ubuntu: sudo apt install poppler-utils, macOS: brew install poppler)"
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}
