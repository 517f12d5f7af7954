package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

// pptxExtractor handles PowerPoint decks. PPTX files are ZIP archives
// with one XML document per slide under ppt/slides/.
type pptxExtractor struct{}

// slidePattern matches slide entries and captures the slide number.
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (e *pptxExtractor) extract(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a valid pptx archive: %v", domain.ErrIngestion, err)
	}

	type numberedSlide struct {
		number int
		name   string
	}
	var slides []numberedSlide
	for _, file := range reader.File {
		m := slidePattern.FindStringSubmatch(file.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, numberedSlide{number: n, name: file.Name})
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("%w: pptx archive has no slides", domain.ErrIngestion)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].number < slides[j].number })

	var parts []string
	for _, slide := range slides {
		content, err := readArchiveFile(reader, slide.name)
		if err != nil {
			return "", err
		}
		texts := extractSlideTexts(content)
		if len(texts) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("[Slide %d]\n%s", slide.number, strings.Join(texts, "\n")))
	}

	text := strings.Join(parts, "\n\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: pptx contains no extractable text", domain.ErrIngestion)
	}
	return text, nil
}

// extractSlideTexts pulls every non-empty text run from a slide XML
// document. A tokenising pass is used instead of a rigid struct because
// shapes nest arbitrarily.
func extractSlideTexts(content []byte) []string {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	var texts []string
	var inText bool
	var current strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				if s := strings.TrimSpace(current.String()); s != "" {
					texts = append(texts, s)
				}
			}
		}
	}
	return texts
}
