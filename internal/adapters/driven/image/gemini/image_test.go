package gemini

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arlieeee/StudyBuddy-AI/internal/core/domain"
)

func TestExtractResult(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{
						genai.Text("A diagram of the water cycle. "),
						genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
					},
				},
			},
		},
	}

	result := extractResult(resp)
	require.NotEmpty(t, result.Image)
	assert.Equal(t, "image/png", result.MIMEType)
	assert.Equal(t, "A diagram of the water cycle.", result.Description)
}

func TestExtractResultKeepsFirstImage(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{
						genai.Blob{MIMEType: "image/png", Data: []byte{1}},
						genai.Blob{MIMEType: "image/jpeg", Data: []byte{2}},
					},
				},
			},
		},
	}

	result := extractResult(resp)
	assert.Equal(t, []byte{1}, result.Image)
	assert.Equal(t, "image/png", result.MIMEType)
}

func TestExtractResultNoImage(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("no image here")}}},
		},
	}

	result := extractResult(resp)
	assert.Empty(t, result.Image)
	assert.Equal(t, "no image here", result.Description)
}

func TestWrapErrClassification(t *testing.T) {
	transient := wrapErr("render", errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED"))
	require.ErrorIs(t, transient, domain.ErrProvider)
	assert.True(t, domain.IsTransient(transient))

	permanent := wrapErr("render", errors.New("googleapi: Error 400: invalid argument"))
	require.ErrorIs(t, permanent, domain.ErrProvider)
	assert.False(t, domain.IsTransient(permanent))

	quota := wrapErr("render", errors.New("googleapi: Error 403: daily quota exceeded for this project"))
	assert.False(t, domain.IsTransient(quota))
}
